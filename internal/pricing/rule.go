package pricing

import "time"

// Rule is a stored, named policy owned by a company. A rule with an empty
// ProductTemplateID applies to every product of the company.
//
// PolicyErr is set when the stored policy could not be parsed or validated; Policy
// is then zero. Such a rule still takes part in selection so that picking it fails loudly.
type Rule struct {
	ID                string    `json:"id"`
	CompanyID         string    `json:"company_id"`
	Name              string    `json:"name"`
	ProductTemplateID string    `json:"product_template_id,omitempty"`
	Policy            Policy    `json:"rules_json"`
	Active            bool      `json:"active"`
	EffectiveFrom     time.Time `json:"effective_from,omitzero"`
	EffectiveTo       time.Time `json:"effective_to,omitzero"`
	PolicyErr         error     `json:"-"`
}

// EffectiveAt reports whether the rule's window contains at. Zero bounds are open; both bounds are inclusive.
func (r Rule) EffectiveAt(at time.Time) bool {
	if !r.EffectiveFrom.IsZero() && at.Before(r.EffectiveFrom) {
		return false
	}
	if !r.EffectiveTo.IsZero() && at.After(r.EffectiveTo) {
		return false
	}
	return true
}

// SelectRule picks the rule to price a product of companyID at the given time.
// Only active rules of the company that are effective at that time qualify.
// A rule for the specific product beats a company-wide one; among equals the
// latest EffectiveFrom wins, then the earlier position in rules.
func SelectRule(rules []Rule, companyID, productTemplateID string, at time.Time) (Rule, bool) {
	best := -1
	for i, r := range rules {
		if !r.Active || r.CompanyID != companyID || !r.EffectiveAt(at) {
			continue
		}
		if r.ProductTemplateID != "" && r.ProductTemplateID != productTemplateID {
			continue
		}
		if best < 0 || outranks(r, rules[best]) {
			best = i
		}
	}
	if best < 0 {
		return Rule{}, false
	}
	return rules[best], true
}

func outranks(a, b Rule) bool {
	aSpecific := a.ProductTemplateID != ""
	bSpecific := b.ProductTemplateID != ""
	if aSpecific != bSpecific {
		return aSpecific
	}
	return a.EffectiveFrom.After(b.EffectiveFrom)
}
