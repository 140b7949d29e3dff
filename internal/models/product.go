package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RewardRule awards CreditAward for every complete ThresholdQuantity units
// bought by a customer of one role.
type RewardRule struct {
	ThresholdQuantity int             `json:"quantity"`
	CreditAward       decimal.Decimal `json:"credit"`
}

// RewardRules maps a role name to its reward rule. A role that is absent
// earns nothing.
type RewardRules map[string]RewardRule

// For returns the rule of role, if any.
func (r RewardRules) For(role string) (RewardRule, bool) {
	rule, ok := r[role]
	return rule, ok
}

// Clone returns a copy that does not share the underlying map.
func (r RewardRules) Clone() RewardRules {
	out := make(RewardRules, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Validate rejects negative thresholds and awards. A zero threshold is
// accepted and means "no rule".
func (r RewardRules) Validate() error {
	for role, rule := range r {
		if role == "" {
			return fmt.Errorf("reward rule with empty role name")
		}
		if rule.ThresholdQuantity < 0 {
			return fmt.Errorf("reward rule for %q: threshold quantity must not be negative", role)
		}
		if rule.CreditAward.IsNegative() {
			return fmt.Errorf("reward rule for %q: credit award must not be negative", role)
		}
	}
	return nil
}

// Value stores the rules as a JSONB document.
func (r RewardRules) Value() (driver.Value, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r)
}

func (r *RewardRules) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*r = RewardRules{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("reward rules: unsupported source type %T", src)
	}
	rules := RewardRules{}
	if err := json.Unmarshal(raw, &rules); err != nil {
		return fmt.Errorf("reward rules: %w", err)
	}
	*r = rules
	return nil
}

type Product struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	Name        string          `db:"name_of_product" json:"name_of_product"`
	Price       decimal.Decimal `db:"price" json:"price"`
	RewardRules RewardRules     `db:"reward_rules" json:"credit_per_role"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}
