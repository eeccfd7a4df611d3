package resume

import (
	"regexp"
	"strings"

	"github.com/artem13815/portfolio/pkg/apperr"
)

// Rejection reasons shown to the submitter.
const (
	ReasonMissingName      = "Failed to extract name from resume. Please ensure the resume contains a clear name and try again."
	ReasonAddressAsName    = "Resume parsing failed - address extracted instead of name. Please ensure the resume clearly shows your name at the top and try again."
	ReasonIdentityMismatch = "Account details and resume data doesn't match"
)

var (
	addressTokens = []string{"house", "street", "road", "avenue", "blvd", "apt", "apartment", "suite", "unit"}
	reDigitRun    = regexp.MustCompile(`\d{3,}`)
)

// Validator approves, rejects or repairs an extracted profile.
type Validator struct {
	policy IdentityPolicy
}

func NewValidator(policy IdentityPolicy) *Validator {
	if policy == nil {
		policy = PermissivePolicy{}
	}
	return &Validator{policy: policy}
}

func (v *Validator) Policy() IdentityPolicy { return v.policy }

// Validate applies the name rules and, when acc is non-nil, the identity
// policy. On success the returned profile carries the account email.
func (v *Validator) Validate(p Profile, resumeText string, acc *Account) (Profile, error) {
	name := strings.TrimSpace(p.FullName)
	if name == "" || strings.EqualFold(name, NamePlaceholder) {
		return Profile{}, apperr.ValidationRejected(ReasonMissingName)
	}
	if LooksLikeAddress(name) {
		return Profile{}, apperr.ValidationRejected(ReasonAddressAsName)
	}

	if acc == nil || strings.TrimSpace(acc.Email) == "" {
		return p, nil
	}
	if !v.policy.Matches(p, resumeText, *acc) {
		return Profile{}, apperr.ValidationRejected(ReasonIdentityMismatch)
	}
	// the account is authoritative for contact identity
	p.Email = strings.TrimSpace(acc.Email)
	return p, nil
}

// LooksLikeAddress reports whether name contains an address word or a run
// of three or more digits.
func LooksLikeAddress(name string) bool {
	lower := strings.ToLower(name)
	for _, tok := range addressTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return reDigitRun.MatchString(name)
}
