package resume

import (
	"fmt"
	"strings"

	"github.com/artem13815/portfolio/pkg/nlp"
)

// Account is the claimed identity a resume is checked against.
type Account struct {
	Email string
	Name  string
}

// IdentityPolicy decides whether an extracted profile belongs to an account.
type IdentityPolicy interface {
	Name() string
	Matches(p Profile, resumeText string, acc Account) bool
}

const (
	PolicyStrict     = "strict"
	PolicyPermissive = "permissive"
)

// PolicyByName resolves a configured policy name.
func PolicyByName(name string) (IdentityPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case PolicyStrict:
		return StrictPolicy{}, nil
	case PolicyPermissive, "":
		return PermissivePolicy{}, nil
	}
	return nil, fmt.Errorf("unknown identity policy %q", name)
}

// StrictPolicy requires the extracted email to equal the account email.
type StrictPolicy struct{}

func (StrictPolicy) Name() string { return PolicyStrict }

func (StrictPolicy) Matches(p Profile, _ string, acc Account) bool {
	return emailsEqual(p.Email, acc.Email)
}

// PermissivePolicy also accepts resumes that mention the account email, or
// any token longer than two characters of the account display name.
type PermissivePolicy struct{}

func (PermissivePolicy) Name() string { return PolicyPermissive }

func (PermissivePolicy) Matches(p Profile, resumeText string, acc Account) bool {
	if emailsEqual(p.Email, acc.Email) {
		return true
	}
	lower := strings.ToLower(resumeText)
	if e := strings.ToLower(strings.TrimSpace(acc.Email)); e != "" && strings.Contains(lower, e) {
		return true
	}
	normalized := nlp.NormalizeText(resumeText)
	for _, tok := range nlp.NameTokens(acc.Name) {
		if nlp.ContainsPhrase(normalized, tok) {
			return true
		}
	}
	return false
}

func emailsEqual(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}
