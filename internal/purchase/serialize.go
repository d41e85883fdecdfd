package purchase

import (
	"fmt"

	"github.com/meridianlabs/purchase-engine/internal/session"
	"github.com/meridianlabs/purchase-engine/internal/values"
)

// ToPayload serializes the aggregate into a persistable document at the
// current schema version.
func (p *PurchaseProcess) ToPayload() session.Payload {
	payload := session.Payload{
		"version":                       session.LatestVersion,
		"sessionId":                     p.sessionID.String(),
		"state":                         string(p.state),
		"atlasFields":                   session.Payload{"atlasCode": p.atlasFields.AtlasCode, "atlasData": p.atlasFields.AtlasData},
		"publicKeyIndex":                p.publicKeyIndex,
		"userInfo":                      p.userInfoPayload(),
		"paymentType":                   p.paymentInfo.PaymentType(),
		"paymentMethod":                 nullableString(p.paymentInfo.PaymentMethod()),
		"paymentTemplateId":             nullableString(p.paymentInfo.TemplateID()),
		"initializedItemCollection":     p.itemsPayload(),
		"memberId":                      nullableString(p.memberID),
		"memberIdGenerated":             p.memberIDGenerated,
		"purchaseId":                    nullableString(p.purchaseID),
		"entrySiteId":                   nullableString(p.entrySiteID),
		"existingMember":                p.existingMember,
		"currency":                      nullableString(p.currency.String()),
		"redirectUrl":                   nullableString(p.redirectURL),
		"postbackUrl":                   nullableString(p.postbackURL),
		"trafficSource":                 p.trafficSource,
		"skipVoid":                      p.skipVoid,
		"gatewaySubmitNumber":           p.gatewaySubmitNumber,
		"cascade":                       p.cascadePayload(),
		"fraudAdvice":                   p.fraudAdvicePayload(),
		"fraudRecommendationCollection": p.recommendationsPayload(),
		"nuDataSettings": session.Payload{
			"clientId": p.nuData.ClientID,
			"url":      p.nuData.URL,
			"enabled":  p.nuData.Enabled,
		},
		"paymentTemplateCollection": p.templatesPayload(),
		"creditCardWasBlacklisted":  p.creditCardWasBlacklisted,
	}
	return payload
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (p *PurchaseProcess) userInfoPayload() session.Payload {
	return session.Payload{
		"email":       p.userInfo.Email.String(),
		"ipAddress":   p.userInfo.IP.String(),
		"zipCode":     p.userInfo.Zip.String(),
		"countryCode": p.userInfo.Country.String(),
		"firstName":   p.userInfo.FirstName,
		"lastName":    p.userInfo.LastName,
		"address":     p.userInfo.Address,
		"city":        p.userInfo.City,
		"phoneNumber": p.userInfo.PhoneNumber,
		"username":    p.userInfo.Username,
	}
}

func (p *PurchaseProcess) cascadePayload() any {
	if p.cascade == nil {
		return nil
	}
	billers := make([]any, 0, len(p.cascade.Billers()))
	for _, name := range p.cascade.BillerNames() {
		billers = append(billers, name)
	}
	removed := make([]any, 0, len(p.cascade.RemovedBillersFor3DS()))
	for _, name := range p.cascade.RemovedBillersFor3DS() {
		removed = append(removed, name)
	}
	return session.Payload{
		"billers":               billers,
		"currentBiller":         p.cascade.CurrentBiller().Name(),
		"currentBillerSubmit":   p.cascade.CurrentBillerSubmit(),
		"currentBillerPosition": p.cascade.CurrentBillerPosition(),
		"removedBillersFor3DS":  removed,
	}
}

func (p *PurchaseProcess) fraudAdvicePayload() session.Payload {
	f := p.fraudAdvice
	return session.Payload{
		"ip":                      f.IP().String(),
		"email":                   f.Email().String(),
		"zip":                     f.Zip().String(),
		"bin":                     f.Bin().String(),
		"initCaptchaAdvised":      f.IsInitCaptchaAdvised(),
		"initCaptchaValidated":    f.IsInitCaptchaValidated(),
		"processCaptchaAdvised":   f.IsProcessCaptchaAdvised(),
		"processCaptchaValidated": f.IsProcessCaptchaValidated(),
		"captchaValidated":        f.IsGloballyValidated(),
		"blacklistedOnInit":       f.IsBlacklistedOnInit(),
		"blacklistedOnProcess":    f.IsBlacklistedOnProcess(),
		"timesBlacklisted":        f.TimesBlacklisted(),
		"forceThreeDOnInit":       f.IsForceThreeDOnInit(),
		"forceThreeDOnProcess":    f.IsForceThreeDOnProcess(),
	}
}

func (p *PurchaseProcess) recommendationsPayload() []any {
	out := make([]any, 0, len(p.fraudRecommendations.Items()))
	for _, r := range p.fraudRecommendations.Items() {
		out = append(out, session.Payload{
			"code":     r.Code,
			"severity": r.Severity,
			"message":  r.Message,
		})
	}
	return out
}

func (p *PurchaseProcess) templatesPayload() []any {
	out := make([]any, 0, len(p.paymentTemplates.Items()))
	for _, t := range p.paymentTemplates.Items() {
		out = append(out, session.Payload{
			"templateId":      t.TemplateID,
			"firstSix":        t.FirstSix,
			"lastFour":        t.LastFour,
			"expirationYear":  t.ExpirationYear,
			"expirationMonth": t.ExpirationMonth,
			"lastUsedDate":    t.LastUsedDate,
			"createdAt":       t.CreatedAt,
			"billerName":      t.BillerName,
			"isSelected":      t.IsSelected,
		})
	}
	return out
}

func (p *PurchaseProcess) itemsPayload() []any {
	out := make([]any, 0, len(p.items.Items()))
	for _, item := range p.items.Items() {
		out = append(out, itemPayload(item))
	}
	return out
}

func itemPayload(item *InitializedItem) session.Payload {
	doc := session.Payload{
		"itemId":              item.ItemID().String(),
		"siteId":              item.SiteID().String(),
		"bundleId":            item.BundleID().String(),
		"addonId":             item.AddonID().String(),
		"isCrossSale":         item.IsCrossSale(),
		"isCrossSaleSelected": item.IsCrossSaleSelected(),
		"isTrial":             item.IsTrial(),
		"subscriptionId":      nil,
		"transactionCollection": transactionsPayload(item.Transactions()),
	}
	if item.HasSubscriptionID() {
		doc["subscriptionId"] = item.SubscriptionID()
	}
	if charge := item.Charge(); charge != nil {
		doc["chargeInformation"] = chargePayload(charge)
	}
	if tax := item.Tax(); tax != nil {
		doc["taxInformation"] = session.Payload{
			"taxName":          tax.TaxName,
			"taxRate":          tax.TaxRate,
			"taxApplicationId": tax.TaxApplicationID,
			"taxCustom":        tax.TaxCustom,
			"taxType":          tax.TaxType,
		}
	}
	return doc
}

func chargePayload(charge *ChargeInformation) session.Payload {
	doc := session.Payload{
		"type":          ChargeSingle,
		"initialAmount": charge.InitialAmount().Float64(),
		"validForDays":  charge.ValidFor().Days(),
	}
	if charge.IsRecurring() {
		doc["type"] = ChargeRecurring
		doc["rebillAmount"] = charge.RebillAmount().Float64()
		doc["rebillDays"] = charge.RebillEvery().Days()
	}
	if tax := charge.InitialTax(); tax != nil {
		doc["initialTax"] = taxBreakdownPayload(tax)
	}
	if tax := charge.RebillTax(); tax != nil {
		doc["rebillTax"] = taxBreakdownPayload(tax)
	}
	return doc
}

func taxBreakdownPayload(tax *TaxBreakdown) session.Payload {
	return session.Payload{
		"beforeTaxes": tax.BeforeTaxes.Float64(),
		"taxes":       tax.Taxes.Float64(),
		"afterTaxes":  tax.AfterTaxes.Float64(),
	}
}

func transactionsPayload(c *TransactionCollection) []any {
	out := make([]any, 0, c.Count())
	for _, t := range c.Items() {
		doc := session.Payload{
			"transactionId": nullableString(t.TransactionID()),
			"state":         string(t.State()),
			"billerName":    t.BillerName(),
			"newCardUsed":   t.NewCardUsed(),
			"redirectUrl":   nullableString(t.RedirectURL()),
			"isNsf":         t.IsNsf(),
		}
		if threeD := t.ThreeD(); threeD != nil {
			doc["threeD"] = session.Payload{
				"acs":                 threeD.Acs,
				"pareq":               threeD.Pareq,
				"stepUpUrl":           threeD.StepUpURL,
				"stepUpJwt":           threeD.StepUpJwt,
				"deviceCollectionUrl": threeD.DeviceCollectionURL,
				"deviceCollectionJwt": threeD.DeviceCollectionJwt,
				"frictionless":        threeD.Frictionless,
				"version":             threeD.Version,
			}
		}
		if ec := t.ErrorClassification(); ec != nil {
			doc["errorClassification"] = session.Payload{
				"groupDecline":      ec.GroupDecline,
				"errorType":         ec.ErrorType,
				"groupMessage":      ec.GroupMessage,
				"recommendedAction": ec.RecommendedAction,
			}
		}
		out = append(out, doc)
	}
	return out
}

// Restore rehydrates an aggregate from a payload at the current schema
// version. Callers must run session.Convert first on any older payload.
func Restore(payload session.Payload) (*PurchaseProcess, error) {
	if v := payload.Int("version"); v != session.LatestVersion {
		return nil, fmt.Errorf("cannot restore session payload at version %d, want %d (run the converter first)",
			v, session.LatestVersion)
	}

	sessionID, err := values.ParseSessionID(payload.String("sessionId"))
	if err != nil {
		return nil, err
	}
	state, err := ParseState(payload.String("state"))
	if err != nil {
		return nil, err
	}

	userInfo, err := restoreUserInfo(payload.Map("userInfo"))
	if err != nil {
		return nil, err
	}

	paymentInfo, err := RestorePaymentInfo(
		payload.String("paymentType"),
		payload.String("paymentMethod"),
		payload.String("paymentTemplateId"),
	)
	if err != nil {
		return nil, err
	}

	items, err := restoreItems(payload.MapSlice("initializedItemCollection"))
	if err != nil {
		return nil, err
	}
	collection, err := NewItemCollection(items)
	if err != nil {
		return nil, err
	}

	var currency values.CurrencyCode
	if payload.Has("currency") {
		currency, err = values.NewCurrencyCode(payload.String("currency"))
		if err != nil {
			return nil, err
		}
	}

	cascade, err := restoreCascade(payload.Map("cascade"))
	if err != nil {
		return nil, err
	}

	advice, err := restoreFraudAdvice(payload.Map("fraudAdvice"))
	if err != nil {
		return nil, err
	}

	recommendations := restoreRecommendations(payload.MapSlice("fraudRecommendationCollection"))
	templates := restoreTemplates(payload.MapSlice("paymentTemplateCollection"))

	atlas := AtlasFields{}
	if doc := payload.Map("atlasFields"); doc != nil {
		atlas.AtlasCode = doc.String("atlasCode")
		atlas.AtlasData = doc.String("atlasData")
	}

	nuData := NuDataSettings{}
	if doc := payload.Map("nuDataSettings"); doc != nil {
		nuData.ClientID = doc.String("clientId")
		nuData.URL = doc.String("url")
		nuData.Enabled = doc.Bool("enabled")
	}

	return &PurchaseProcess{
		sessionID:                sessionID,
		state:                    state,
		atlasFields:              atlas,
		publicKeyIndex:           payload.Int("publicKeyIndex"),
		userInfo:                 userInfo,
		paymentInfo:              paymentInfo,
		items:                    collection,
		memberID:                 payload.String("memberId"),
		memberIDGenerated:        payload.Bool("memberIdGenerated"),
		purchaseID:               payload.String("purchaseId"),
		entrySiteID:              payload.String("entrySiteId"),
		existingMember:           payload.Bool("existingMember"),
		currency:                 currency,
		cascade:                  cascade,
		fraudAdvice:              advice,
		fraudRecommendations:     recommendations,
		paymentTemplates:         templates,
		gatewaySubmitNumber:      payload.Int("gatewaySubmitNumber"),
		skipVoid:                 payload.Bool("skipVoid"),
		creditCardWasBlacklisted: payload.Bool("creditCardWasBlacklisted"),
		redirectURL:              payload.String("redirectUrl"),
		postbackURL:              payload.String("postbackUrl"),
		trafficSource:            payload.String("trafficSource"),
		nuData:                   nuData,
	}, nil
}

func restoreUserInfo(doc session.Payload) (UserInfo, error) {
	if doc == nil {
		return UserInfo{}, nil
	}
	info := UserInfo{
		FirstName:   doc.String("firstName"),
		LastName:    doc.String("lastName"),
		Address:     doc.String("address"),
		City:        doc.String("city"),
		PhoneNumber: doc.String("phoneNumber"),
		Username:    doc.String("username"),
	}
	var err error
	if s := doc.String("email"); s != "" {
		if info.Email, err = values.NewEmail(s); err != nil {
			return UserInfo{}, err
		}
	}
	if s := doc.String("ipAddress"); s != "" {
		if info.IP, err = values.NewIP(s); err != nil {
			return UserInfo{}, err
		}
	}
	if s := doc.String("zipCode"); s != "" {
		if info.Zip, err = values.NewZip(s); err != nil {
			return UserInfo{}, err
		}
	}
	if s := doc.String("countryCode"); s != "" {
		if info.Country, err = values.NewCountryCode(s); err != nil {
			return UserInfo{}, err
		}
	}
	return info, nil
}

func restoreCascade(doc session.Payload) (*Cascade, error) {
	if doc == nil {
		return nil, nil
	}
	return RestoreCascade(
		doc.StringSlice("billers"),
		doc.String("currentBiller"),
		doc.Int("currentBillerSubmit"),
		doc.Int("currentBillerPosition"),
		doc.StringSlice("removedBillersFor3DS"),
	)
}

func restoreFraudAdvice(doc session.Payload) (*FraudAdvice, error) {
	if doc == nil {
		return NewFraudAdvice(values.IP{}, values.Email{}, values.Zip{}, values.Bin{}), nil
	}
	restored := RestoredFraudAdvice{
		InitCaptchaAdvised:      doc.Bool("initCaptchaAdvised"),
		InitCaptchaValidated:    doc.Bool("initCaptchaValidated"),
		ProcessCaptchaAdvised:   doc.Bool("processCaptchaAdvised"),
		ProcessCaptchaValidated: doc.Bool("processCaptchaValidated"),
		CaptchaValidated:        doc.Bool("captchaValidated"),
		BlacklistedOnInit:       doc.Bool("blacklistedOnInit"),
		BlacklistedOnProcess:    doc.Bool("blacklistedOnProcess"),
		TimesBlacklisted:        doc.Int("timesBlacklisted"),
		ForceThreeDOnInit:       doc.Bool("forceThreeDOnInit"),
		ForceThreeDOnProcess:    doc.Bool("forceThreeDOnProcess"),
	}
	var err error
	if s := doc.String("ip"); s != "" {
		if restored.IP, err = values.NewIP(s); err != nil {
			return nil, err
		}
	}
	if s := doc.String("email"); s != "" {
		if restored.Email, err = values.NewEmail(s); err != nil {
			return nil, err
		}
	}
	if s := doc.String("zip"); s != "" {
		if restored.Zip, err = values.NewZip(s); err != nil {
			return nil, err
		}
	}
	if s := doc.String("bin"); s != "" {
		if restored.Bin, err = values.NewBin(s); err != nil {
			return nil, err
		}
	}
	return RestoreFraudAdvice(restored), nil
}

func restoreRecommendations(docs []session.Payload) *FraudRecommendationCollection {
	items := make([]FraudRecommendation, 0, len(docs))
	for _, doc := range docs {
		items = append(items, FraudRecommendation{
			Code:     doc.Int("code"),
			Severity: doc.String("severity"),
			Message:  doc.String("message"),
		})
	}
	return NewFraudRecommendationCollection(items...)
}

func restoreTemplates(docs []session.Payload) *PaymentTemplateCollection {
	items := make([]PaymentTemplate, 0, len(docs))
	for _, doc := range docs {
		items = append(items, PaymentTemplate{
			TemplateID:      doc.String("templateId"),
			FirstSix:        doc.String("firstSix"),
			LastFour:        doc.String("lastFour"),
			ExpirationYear:  doc.String("expirationYear"),
			ExpirationMonth: doc.String("expirationMonth"),
			LastUsedDate:    doc.String("lastUsedDate"),
			CreatedAt:       doc.String("createdAt"),
			BillerName:      doc.String("billerName"),
			IsSelected:      doc.Bool("isSelected"),
		})
	}
	return NewPaymentTemplateCollection(items...)
}

func restoreItems(docs []session.Payload) ([]*InitializedItem, error) {
	items := make([]*InitializedItem, 0, len(docs))
	for _, doc := range docs {
		item, err := restoreItem(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func restoreItem(doc session.Payload) (*InitializedItem, error) {
	data := ItemData{
		IsCrossSale:         doc.Bool("isCrossSale"),
		IsCrossSaleSelected: doc.Bool("isCrossSaleSelected"),
		IsTrial:             doc.Bool("isTrial"),
		SubscriptionID:      doc.String("subscriptionId"),
	}
	var err error
	if data.ItemID, err = values.ParseItemID(doc.String("itemId")); err != nil {
		return nil, err
	}
	if s := doc.String("siteId"); s != "" {
		if data.SiteID, err = values.ParseSiteID(s); err != nil {
			return nil, err
		}
	}
	if s := doc.String("bundleId"); s != "" {
		if data.BundleID, err = values.ParseBundleID(s); err != nil {
			return nil, err
		}
	}
	if s := doc.String("addonId"); s != "" {
		if data.AddonID, err = values.ParseAddonID(s); err != nil {
			return nil, err
		}
	}
	if chargeDoc := doc.Map("chargeInformation"); chargeDoc != nil {
		if data.Charge, err = restoreCharge(chargeDoc); err != nil {
			return nil, err
		}
	}
	if taxDoc := doc.Map("taxInformation"); taxDoc != nil {
		data.Tax = &TaxInformation{
			TaxName:          taxDoc.String("taxName"),
			TaxRate:          taxDoc.Float("taxRate"),
			TaxApplicationID: taxDoc.String("taxApplicationId"),
			TaxCustom:        taxDoc.String("taxCustom"),
			TaxType:          taxDoc.String("taxType"),
		}
	}

	item := NewInitializedItem(data)
	for _, txDoc := range doc.MapSlice("transactionCollection") {
		t, err := restoreTransaction(txDoc)
		if err != nil {
			return nil, err
		}
		item.AddTransaction(t)
	}
	return item, nil
}

func restoreCharge(doc session.Payload) (*ChargeInformation, error) {
	initialAmount, err := values.NewAmount(doc.Float("initialAmount"))
	if err != nil {
		return nil, err
	}
	validFor, err := values.NewDuration(doc.Int("validForDays"))
	if err != nil {
		return nil, err
	}
	initialTax, err := restoreTaxBreakdown(doc.Map("initialTax"))
	if err != nil {
		return nil, err
	}

	if doc.String("type") != ChargeRecurring {
		return NewSingleCharge(initialAmount, validFor, initialTax)
	}

	rebillAmount, err := values.NewAmount(doc.Float("rebillAmount"))
	if err != nil {
		return nil, err
	}
	rebillEvery, err := values.NewDuration(doc.Int("rebillDays"))
	if err != nil {
		return nil, err
	}
	rebillTax, err := restoreTaxBreakdown(doc.Map("rebillTax"))
	if err != nil {
		return nil, err
	}
	return NewRecurringCharge(initialAmount, validFor, rebillAmount, rebillEvery, initialTax, rebillTax)
}

func restoreTaxBreakdown(doc session.Payload) (*TaxBreakdown, error) {
	if doc == nil {
		return nil, nil
	}
	before, err := values.NewAmount(doc.Float("beforeTaxes"))
	if err != nil {
		return nil, err
	}
	taxes, err := values.NewAmount(doc.Float("taxes"))
	if err != nil {
		return nil, err
	}
	after, err := values.NewAmount(doc.Float("afterTaxes"))
	if err != nil {
		return nil, err
	}
	return &TaxBreakdown{BeforeTaxes: before, Taxes: taxes, AfterTaxes: after}, nil
}

func restoreTransaction(doc session.Payload) (*Transaction, error) {
	data := TransactionData{
		TransactionID: doc.String("transactionId"),
		State:         TransactionState(doc.String("state")),
		BillerName:    doc.String("billerName"),
		NewCardUsed:   doc.Bool("newCardUsed"),
		RedirectURL:   doc.String("redirectUrl"),
		IsNsf:         doc.Bool("isNsf"),
	}
	if threeDDoc := doc.Map("threeD"); threeDDoc != nil {
		data.ThreeD = &ThreeDInfo{
			Acs:                 threeDDoc.String("acs"),
			Pareq:               threeDDoc.String("pareq"),
			StepUpURL:           threeDDoc.String("stepUpUrl"),
			StepUpJwt:           threeDDoc.String("stepUpJwt"),
			DeviceCollectionURL: threeDDoc.String("deviceCollectionUrl"),
			DeviceCollectionJwt: threeDDoc.String("deviceCollectionJwt"),
			Frictionless:        threeDDoc.Bool("frictionless"),
			Version:             threeDDoc.Int("version"),
		}
	}
	if ecDoc := doc.Map("errorClassification"); ecDoc != nil {
		data.ErrorClassification = &ErrorClassification{
			GroupDecline:      ecDoc.String("groupDecline"),
			ErrorType:         ecDoc.String("errorType"),
			GroupMessage:      ecDoc.String("groupMessage"),
			RecommendedAction: ecDoc.String("recommendedAction"),
		}
	}
	return NewTransaction(data)
}
