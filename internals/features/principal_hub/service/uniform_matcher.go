package service

import (
	"fmt"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"

	"edudash_backend/internals/features/principal_hub/model"
	helper "edudash_backend/internals/helpers"
)

var uniformKeywords = []string{"uniform", "school wear", "schoolwear", "tracksuit", "blazer"}

// Metadata keys that may name what a payment was for.
var paymentLabelKeys = []string{"category", "fee_type", "purpose"}

func isUniformLabel(labels ...string) bool {
	for _, l := range labels {
		if helper.ContainsFolded(l, uniformKeywords...) {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isUniformStructure(f model.SchoolFeeStructure) bool {
	return isUniformLabel(deref(f.FeeCategory), f.Name, deref(f.Description))
}

func isUniformLegacyStructure(f model.FeeStructure) bool {
	return isUniformLabel(deref(f.FeeType), f.Name, deref(f.Description))
}

func isUniformPayment(p model.Payment) bool {
	return isUniformLabel(append([]string{deref(p.Description)}, metadataLabels(p.Metadata)...)...)
}

func isUniformPOP(p model.POPUpload) bool {
	return isUniformLabel(deref(p.CategoryCode), deref(p.Title), deref(p.Description))
}

// metadataLabels pulls the label keys out of a JSON object. Anything else,
// including malformed JSON, yields nothing.
func metadataLabels(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]any
	if err := sonic.Unmarshal(raw, &m); err != nil {
		return nil
	}
	out := make([]string, 0, len(paymentLabelKeys))
	for _, k := range paymentLabelKeys {
		switch v := m[k].(type) {
		case nil:
		case string:
			out = append(out, v)
		default:
			out = append(out, fmt.Sprint(v))
		}
	}
	return out
}
