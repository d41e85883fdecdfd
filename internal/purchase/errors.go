package purchase

import "errors"

// Cascade errors.
var (
	// ErrInvalidNextBiller is returned by Cascade.NextBiller when no submit
	// attempts remain anywhere in the cascade.
	ErrInvalidNextBiller = errors.New("no next biller available: cascade exhausted")
	// ErrNoBillersInCascade is returned when a removal operation would leave
	// the cascade empty.
	ErrNoBillersInCascade = errors.New("no billers left in cascade")
)

// Fraud-gate errors.
var (
	// ErrCaptchaNotValidated blocks Process when a captcha advisory is
	// outstanding.
	ErrCaptchaNotValidated = errors.New("captcha has not been validated")
	// ErrInitCaptchaNotAdvised rejects validating an init captcha that was
	// never advised.
	ErrInitCaptchaNotAdvised = errors.New("cannot validate init captcha: captcha was not advised")
	// ErrProcessCaptchaWithoutInitCaptcha rejects validating the process
	// captcha while the advised init captcha is still unvalidated.
	ErrProcessCaptchaWithoutInitCaptcha = errors.New("cannot validate process captcha without validated init captcha")
	// ErrProcessCaptchaNotAdvised rejects validating a process captcha that
	// was never advised.
	ErrProcessCaptchaNotAdvised = errors.New("cannot validate process captcha: captcha was not advised")
)

// Aggregate invariant errors.
var (
	// ErrMainItemMissing indicates the item collection has no non-cross-sale
	// item; exactly one must exist.
	ErrMainItemMissing = errors.New("purchase session has no main item")
	// ErrMainItemDuplicated indicates more than one non-cross-sale item.
	ErrMainItemDuplicated = errors.New("purchase session has more than one main item")
)
