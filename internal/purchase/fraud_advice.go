package purchase

import "github.com/meridianlabs/purchase-engine/internal/values"

// FraudAdvice carries the per-session captcha, blacklist and 3DS-forcing
// decision state, along with the identity fields it was scored against. When
// any identity field changes the session must be re-scored.
type FraudAdvice struct {
	ip    values.IP
	email values.Email
	zip   values.Zip
	bin   values.Bin

	initCaptchaAdvised      bool
	initCaptchaValidated    bool
	processCaptchaAdvised   bool
	processCaptchaValidated bool
	captchaValidated        bool

	blacklistedOnInit    bool
	blacklistedOnProcess bool
	timesBlacklisted     int

	forceThreeDOnInit    bool
	forceThreeDOnProcess bool
}

// NewFraudAdvice creates advice for the given identity fields with all gates
// open.
func NewFraudAdvice(ip values.IP, email values.Email, zip values.Zip, bin values.Bin) *FraudAdvice {
	return &FraudAdvice{ip: ip, email: email, zip: zip, bin: bin}
}

// RestoredFraudAdvice rebuilds advice from persisted flag state.
type RestoredFraudAdvice struct {
	IP                      values.IP
	Email                   values.Email
	Zip                     values.Zip
	Bin                     values.Bin
	InitCaptchaAdvised      bool
	InitCaptchaValidated    bool
	ProcessCaptchaAdvised   bool
	ProcessCaptchaValidated bool
	CaptchaValidated        bool
	BlacklistedOnInit       bool
	BlacklistedOnProcess    bool
	TimesBlacklisted        int
	ForceThreeDOnInit       bool
	ForceThreeDOnProcess    bool
}

// RestoreFraudAdvice rebuilds a FraudAdvice from persisted state.
func RestoreFraudAdvice(r RestoredFraudAdvice) *FraudAdvice {
	return &FraudAdvice{
		ip:                      r.IP,
		email:                   r.Email,
		zip:                     r.Zip,
		bin:                     r.Bin,
		initCaptchaAdvised:      r.InitCaptchaAdvised,
		initCaptchaValidated:    r.InitCaptchaValidated,
		processCaptchaAdvised:   r.ProcessCaptchaAdvised,
		processCaptchaValidated: r.ProcessCaptchaValidated,
		captchaValidated:        r.CaptchaValidated,
		blacklistedOnInit:       r.BlacklistedOnInit,
		blacklistedOnProcess:    r.BlacklistedOnProcess,
		timesBlacklisted:        r.TimesBlacklisted,
		forceThreeDOnInit:       r.ForceThreeDOnInit,
		forceThreeDOnProcess:    r.ForceThreeDOnProcess,
	}
}

// Identity field accessors.

func (f *FraudAdvice) IP() values.IP       { return f.ip }
func (f *FraudAdvice) Email() values.Email { return f.email }
func (f *FraudAdvice) Zip() values.Zip     { return f.zip }
func (f *FraudAdvice) Bin() values.Bin     { return f.bin }

// RequiresRescoring reports whether the fraud-relevant identity fields differ
// from those the advice was scored against.
func (f *FraudAdvice) RequiresRescoring(ip values.IP, email values.Email, zip values.Zip, bin values.Bin) bool {
	return f.ip.String() != ip.String() ||
		f.email.String() != email.String() ||
		f.zip.String() != zip.String() ||
		f.bin.String() != bin.String()
}

// AdviseInitCaptcha raises the init-time captcha gate.
func (f *FraudAdvice) AdviseInitCaptcha() {
	f.initCaptchaAdvised = true
}

// AdviseProcessCaptcha raises the process-time captcha gate.
func (f *FraudAdvice) AdviseProcessCaptcha() {
	f.processCaptchaAdvised = true
}

// ValidateInitCaptcha lowers the init-time captcha gate.
func (f *FraudAdvice) ValidateInitCaptcha() error {
	if !f.initCaptchaAdvised {
		return ErrInitCaptchaNotAdvised
	}
	f.initCaptchaValidated = true
	return nil
}

// ValidateProcessCaptcha lowers the process-time captcha gate. The init gate
// must already be lowered if it was ever raised.
func (f *FraudAdvice) ValidateProcessCaptcha() error {
	if f.initCaptchaAdvised && !f.initCaptchaValidated {
		return ErrProcessCaptchaWithoutInitCaptcha
	}
	if !f.processCaptchaAdvised {
		return ErrProcessCaptchaNotAdvised
	}
	f.processCaptchaValidated = true
	return nil
}

// MarkCaptchaValidated records a global captcha validation that supersedes the
// per-gate flags.
func (f *FraudAdvice) MarkCaptchaValidated() {
	f.captchaValidated = true
}

// IsCaptchaValidated reports whether the captcha requirement is satisfied:
// either globally validated, or no gate is advised-but-unvalidated.
func (f *FraudAdvice) IsCaptchaValidated() bool {
	if f.captchaValidated {
		return true
	}
	if f.initCaptchaAdvised && !f.initCaptchaValidated {
		return false
	}
	if f.processCaptchaAdvised && !f.processCaptchaValidated {
		return false
	}
	return true
}

// MarkBlacklistedOnInit records an init-time blacklist hit.
func (f *FraudAdvice) MarkBlacklistedOnInit() {
	f.blacklistedOnInit = true
	f.timesBlacklisted++
}

// MarkBlacklistedOnProcess records a process-time blacklist hit.
func (f *FraudAdvice) MarkBlacklistedOnProcess() {
	f.blacklistedOnProcess = true
	f.timesBlacklisted++
}

// IsBlacklistedOnInit reports an init-time blacklist hit.
func (f *FraudAdvice) IsBlacklistedOnInit() bool { return f.blacklistedOnInit }

// IsBlacklistedOnProcess reports a process-time blacklist hit.
func (f *FraudAdvice) IsBlacklistedOnProcess() bool { return f.blacklistedOnProcess }

// TimesBlacklisted returns the blacklist-repeat counter.
func (f *FraudAdvice) TimesBlacklisted() int { return f.timesBlacklisted }

// IsBlacklisted reports whether either blacklist flag is set.
func (f *FraudAdvice) IsBlacklisted() bool {
	return f.blacklistedOnInit || f.blacklistedOnProcess
}

// ShouldBlockProcess reports whether processing must be blocked: blacklisted
// at init, repeatedly blacklisted at process, or captcha outstanding.
func (f *FraudAdvice) ShouldBlockProcess() bool {
	if f.blacklistedOnInit {
		return true
	}
	if f.blacklistedOnProcess && f.timesBlacklisted >= 1 {
		return true
	}
	return !f.IsCaptchaValidated()
}

// ForceThreeDOnInit forces 3DS from init-time scoring.
func (f *FraudAdvice) ForceThreeDOnInit() {
	f.forceThreeDOnInit = true
}

// ForceThreeDOnProcess forces 3DS from process-time scoring.
func (f *FraudAdvice) ForceThreeDOnProcess() {
	f.forceThreeDOnProcess = true
}

// IsForceThreeD reports whether any scoring pass forced 3DS.
func (f *FraudAdvice) IsForceThreeD() bool {
	return f.forceThreeDOnInit || f.forceThreeDOnProcess
}

// IsForceThreeDOnInit reports init-time 3DS forcing.
func (f *FraudAdvice) IsForceThreeDOnInit() bool { return f.forceThreeDOnInit }

// IsForceThreeDOnProcess reports process-time 3DS forcing.
func (f *FraudAdvice) IsForceThreeDOnProcess() bool { return f.forceThreeDOnProcess }

// IsInitCaptchaAdvised reports the init-time gate advisory.
func (f *FraudAdvice) IsInitCaptchaAdvised() bool { return f.initCaptchaAdvised }

// IsInitCaptchaValidated reports the init-time gate validation.
func (f *FraudAdvice) IsInitCaptchaValidated() bool { return f.initCaptchaValidated }

// IsProcessCaptchaAdvised reports the process-time gate advisory.
func (f *FraudAdvice) IsProcessCaptchaAdvised() bool { return f.processCaptchaAdvised }

// IsProcessCaptchaValidated reports the process-time gate validation.
func (f *FraudAdvice) IsProcessCaptchaValidated() bool { return f.processCaptchaValidated }

// IsGloballyValidated reports the global captcha validation flag.
func (f *FraudAdvice) IsGloballyValidated() bool { return f.captchaValidated }
