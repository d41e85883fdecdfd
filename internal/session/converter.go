package session

import "fmt"

// LatestVersion is the schema version this engine reads and writes. Payloads
// below it are migrated step by step; a version with no registered migration
// is fatal.
const LatestVersion = 28

// oldestVersion is assumed for payloads persisted before the version key
// existed. Anything older was purged from storage long ago.
const oldestVersion = 10

// ConversionError reports a payload version with no registered migration.
// It indicates data corruption or a missing migration and is never defaulted
// around.
type ConversionError struct {
	Version int
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("no migration registered for session version %d", e.Version)
}

// migration upgrades a payload in place by exactly one version. Every step
// guards on key presence so re-applying it to an already-migrated payload is
// harmless.
type migration func(Payload)

// migrations maps a schema version to the step that upgrades it to the next.
var migrations = map[int]migration{
	// Tracking codes became mandatory top-level structure.
	10: func(p Payload) {
		if !p.Has("atlasFields") {
			p["atlasFields"] = Payload{"atlasCode": nil, "atlasData": nil}
		}
	},
	// Public key rotation introduced an index per session.
	11: func(p Payload) {
		if !p.Has("publicKeyIndex") {
			p["publicKeyIndex"] = 0
		}
	},
	// Currency moved from the cascade to the session top level.
	12: func(p Payload) {
		cascade := p.Map("cascade")
		if cascade != nil && cascade.Has("currencyCode") {
			if !p.Has("currency") {
				p["currency"] = cascade["currencyCode"]
			}
			delete(cascade, "currencyCode")
		}
		if _, ok := p["currency"]; !ok {
			p["currency"] = nil
		}
	},
	// Third-party flows added a return redirect url.
	13: func(p Payload) {
		if _, ok := p["redirectUrl"]; !ok {
			p["redirectUrl"] = nil
		}
	},
	// Pending settlements added a postback url.
	14: func(p Payload) {
		if _, ok := p["postbackUrl"]; !ok {
			p["postbackUrl"] = nil
		}
	},
	// Traffic-source segmentation and entry-site attribution.
	15: func(p Payload) {
		if !p.Has("trafficSource") {
			p["trafficSource"] = "ALL"
		}
		if _, ok := p["entrySiteId"]; !ok {
			p["entrySiteId"] = nil
		}
	},
	// Payment selection split into type, method, and template reference.
	16: func(p Payload) {
		if _, ok := p["paymentMethod"]; !ok {
			p["paymentMethod"] = nil
		}
		if _, ok := p["paymentTemplateId"]; !ok {
			p["paymentTemplateId"] = nil
		}
	},
	// The scoring pipeline started returning multiple recommendations; the
	// singular entry is wrapped into a collection.
	17: func(p Payload) {
		if !p.Has("fraudRecommendationCollection") {
			if p.Has("fraudRecommendation") {
				p["fraudRecommendationCollection"] = []any{p["fraudRecommendation"]}
			} else {
				p["fraudRecommendationCollection"] = []any{}
			}
		}
		delete(p, "fraudRecommendation")
	},
	// Void-on-decline became skippable per session.
	18: func(p Payload) {
		if !p.Has("skipVoid") {
			p["skipVoid"] = false
		}
	},
	// Cascade cursor keys were renamed and the default-biller flag dropped.
	19: func(p Payload) {
		cascade := p.Map("cascade")
		if cascade == nil {
			return
		}
		if cascade.Has("biller") && !cascade.Has("currentBiller") {
			cascade["currentBiller"] = cascade["biller"]
		}
		delete(cascade, "biller")
		delete(cascade, "isDefaultBillerUsed")
	},
	// Cascade cursor counters became explicit.
	20: func(p Payload) {
		cascade := p.Map("cascade")
		if cascade == nil {
			return
		}
		if !cascade.Has("currentBillerSubmit") {
			cascade["currentBillerSubmit"] = 0
		}
		if !cascade.Has("currentBillerPosition") {
			cascade["currentBillerPosition"] = 0
		}
	},
	// Forced-3DS filtering started recording removed billers.
	21: func(p Payload) {
		cascade := p.Map("cascade")
		if cascade == nil {
			return
		}
		if !cascade.Has("removedBillersFor3DS") {
			cascade["removedBillersFor3DS"] = []any{}
		}
	},
	// Gateway attempt counter became part of the session.
	22: func(p Payload) {
		if !p.Has("gatewaySubmitNumber") {
			p["gatewaySubmitNumber"] = 0
		}
	},
	// Device fingerprint collection settings.
	23: func(p Payload) {
		if !p.Has("nuDataSettings") {
			p["nuDataSettings"] = Payload{"clientId": "", "url": "", "enabled": false}
		}
	},
	// Stored payment templates offered to returning members.
	24: func(p Payload) {
		if !p.Has("paymentTemplateCollection") {
			p["paymentTemplateCollection"] = []any{}
		}
	},
	// Returning-member detection flag.
	25: func(p Payload) {
		if !p.Has("existingMember") {
			p["existingMember"] = false
		}
	},
	// Member and purchase ids became lazily generated and nullable.
	26: func(p Payload) {
		if _, ok := p["memberId"]; !ok {
			p["memberId"] = nil
		}
		if _, ok := p["purchaseId"]; !ok {
			p["purchaseId"] = nil
		}
	},
	// Card blacklisting outcome persisted on the session.
	27: func(p Payload) {
		if !p.Has("creditCardWasBlacklisted") {
			p["creditCardWasBlacklisted"] = false
		}
		if !p.Has("memberIdGenerated") {
			p["memberIdGenerated"] = false
		}
	},
}

// Convert upgrades a persisted payload to LatestVersion. The input is never
// mutated. A payload without a version key is assumed to be at the oldest
// schema still present in storage.
func Convert(p Payload) (Payload, error) {
	out := p.Clone()

	version := out.Int("version")
	if !out.Has("version") {
		version = oldestVersion
	}
	if version > LatestVersion {
		return nil, &ConversionError{Version: version}
	}

	for version < LatestVersion {
		step, ok := migrations[version]
		if !ok {
			return nil, &ConversionError{Version: version}
		}
		step(out)
		version++
		out["version"] = version
	}

	out["version"] = LatestVersion
	return out, nil
}
