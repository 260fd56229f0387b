package webhook

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"outbound_ai_backend/internal/leads/repository"
	"outbound_ai_backend/platform/logger"
	"outbound_ai_backend/platform/phone"
)

// ResolutionTier names the strategy that located a lead.
type ResolutionTier string

const (
	TierNone        ResolutionTier = ""
	TierContactID   ResolutionTier = "contact_id"
	TierExactPhone  ResolutionTier = "exact_phone"
	TierPhoneSuffix ResolutionTier = "phone_suffix"
	TierRecentScan  ResolutionTier = "recent_scan"
	TierNamePhone   ResolutionTier = "name_phone"
)

const (
	defaultRecentWindow = 25
	defaultStoreTimeout = 5 * time.Second
	suffixSearchLimit   = 10
	nameSearchLimit     = 25

	phoneSuffixLength   = 10
	nameMatchDigits     = 4
	minComparableDigits = 7
)

// Resolution is the outcome of Resolve. LeadID is empty when nothing matched.
type Resolution struct {
	LeadID string
	Tier   ResolutionTier
}

// Resolved reports whether a lead was found.
func (r Resolution) Resolved() bool {
	return r.LeadID != ""
}

// Resolver locates the lead a call webhook refers to.
type Resolver struct {
	leads        repository.LeadReader
	recentWindow int
	timeout      time.Duration
	log          *logger.Logger
}

// NewResolver creates a Resolver. Non-positive window or timeout fall back to defaults.
func NewResolver(leads repository.LeadReader, recentWindow int, timeout time.Duration, log *logger.Logger) *Resolver {
	if recentWindow <= 0 {
		recentWindow = defaultRecentWindow
	}
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return &Resolver{leads: leads, recentWindow: recentWindow, timeout: timeout, log: log}
}

type resolveStep struct {
	tier ResolutionTier
	run  func(ctx context.Context, target string, name string) (string, error)
}

// Resolve returns the lead id for the call. A contact id is trusted as-is. Otherwise
// the phone tiers run in order and the first hit wins. A store failure in one tier
// does not stop the later ones; the error is returned only when no tier matched.
func (r *Resolver) Resolve(ctx context.Context, contactID, phoneNumber, customerName string) (Resolution, error) {
	if contactID = strings.TrimSpace(contactID); contactID != "" {
		return Resolution{LeadID: contactID, Tier: TierContactID}, nil
	}

	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" {
		return Resolution{}, nil
	}

	steps := []resolveStep{
		{tier: TierExactPhone, run: r.byExactPhone},
		{tier: TierPhoneSuffix, run: r.byPhoneSuffix},
		{tier: TierRecentScan, run: r.byRecentScan},
		{tier: TierNamePhone, run: r.byNameAndLastDigits},
	}

	var errs []error
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return Resolution{}, err
		}

		leadID, err := step.run(ctx, phoneNumber, customerName)
		if err != nil {
			r.log.Warn("lead resolution tier failed", "tier", string(step.tier), "error", err)
			errs = append(errs, err)
			continue
		}
		if leadID != "" {
			return Resolution{LeadID: leadID, Tier: step.tier}, nil
		}
	}

	return Resolution{}, errors.Join(errs...)
}

func (r *Resolver) byExactPhone(ctx context.Context, target, _ string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	lead, err := r.leads.GetByExactPhone(ctx, target)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return lead.ID, nil
}

func (r *Resolver) byPhoneSuffix(ctx context.Context, target, _ string) (string, error) {
	suffix := phone.LastDigits(target, phoneSuffixLength)
	if len(suffix) < minComparableDigits {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	candidates, err := r.leads.ListByPhoneSuffix(ctx, suffix, suffixSearchLimit)
	if err != nil {
		return "", err
	}
	for _, lead := range candidates {
		if strings.Contains(phone.Digits(lead.PhoneNumber), suffix) {
			return lead.ID, nil
		}
	}
	return "", nil
}

func (r *Resolver) byRecentScan(ctx context.Context, target, _ string) (string, error) {
	targetDigits := phone.Digits(target)
	if len(targetDigits) < minComparableDigits {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	recent, err := r.leads.ListRecent(ctx, r.recentWindow)
	if err != nil {
		return "", err
	}
	for _, lead := range recent {
		if phonesMatch(targetDigits, phone.Digits(lead.PhoneNumber)) {
			return lead.ID, nil
		}
	}
	return "", nil
}

func (r *Resolver) byNameAndLastDigits(ctx context.Context, target, customerName string) (string, error) {
	name := normalizeName(customerName)
	if name == "" {
		return "", nil
	}
	lastDigits := phone.LastDigits(target, nameMatchDigits)
	if len(lastDigits) < nameMatchDigits {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	candidates, err := r.leads.ListByNameLike(ctx, strings.Fields(name)[0], nameSearchLimit)
	if err != nil {
		return "", err
	}
	for _, lead := range candidates {
		if namesMatch(name, normalizeName(lead.Name)) && strings.HasSuffix(phone.Digits(lead.PhoneNumber), lastDigits) {
			return lead.ID, nil
		}
	}
	return "", nil
}

// phonesMatch compares cleaned numbers in full and by their last ten digits in
// both directions, tolerating a missing or extra country code.
func phonesMatch(a, b string) bool {
	if len(a) < minComparableDigits || len(b) < minComparableDigits {
		return false
	}
	if a == b {
		return true
	}
	sa := lastN(a, phoneSuffixLength)
	sb := lastN(b, phoneSuffixLength)
	return strings.HasSuffix(sa, sb) || strings.HasSuffix(sb, sa)
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// normalizeName lowercases, drops punctuation and collapses whitespace.
func normalizeName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return ' '
		}
		return -1
	}, name)
	return strings.Join(strings.Fields(cleaned), " ")
}

// namesMatch accepts containment either way, or an equal first name with a
// second token that abbreviates the other ("jane d" and "jane doe").
func namesMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}

	ta := strings.Fields(a)
	tb := strings.Fields(b)
	if len(ta) < 2 || len(tb) < 2 || ta[0] != tb[0] {
		return false
	}
	return strings.HasPrefix(ta[1], tb[1]) || strings.HasPrefix(tb[1], ta[1])
}
