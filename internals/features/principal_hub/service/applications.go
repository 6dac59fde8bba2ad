package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"edudash_backend/internals/features/principal_hub/model"
	helper "edudash_backend/internals/helpers"
)

// ApplicationCounts is the status histogram of the merged application set.
type ApplicationCounts struct {
	Pending    int
	Approved   int
	Rejected   int
	Waitlisted int
}

func (a ApplicationCounts) Total() int {
	return a.Pending + a.Approved + a.Rejected + a.Waitlisted
}

// mergeApplications folds the canonical table and both legacy registration
// tables into one list. The same child submitted through two tables is kept
// once; canonical rows win over legacy ones.
func mergeApplications(
	orgID uuid.UUID,
	canonical []model.EnrollmentApplication,
	web []model.RegistrationRequest,
	inApp []model.ChildRegistrationRequest,
) []model.Application {
	out := make([]model.Application, 0, len(canonical)+len(web)+len(inApp))
	seen := make(map[string]struct{}, cap(out))

	add := func(row model.Tenanted, f model.ApplicationFields, src model.ApplicationSource) {
		if !model.BelongsTo(row, orgID) {
			return
		}
		key := applicationKey(f)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, model.Application{ApplicationFields: f, Source: src, OrganizationID: orgID})
	}

	for _, r := range canonical {
		add(r, r.ApplicationFields, model.SourceEnrollmentApplications)
	}
	for _, r := range web {
		add(r, r.ApplicationFields, model.SourceRegistrationRequests)
	}
	for _, r := range inApp {
		add(r, r.ApplicationFields, model.SourceChildRegistrationRequests)
	}
	return out
}

// applicationKey is child first name + last name + birth date, or the row id
// when the child cannot be identified.
func applicationKey(f model.ApplicationFields) string {
	first := helper.FoldText(f.ChildFirstName)
	last := helper.FoldText(f.ChildLastName)
	if first == "" || last == "" || f.ChildBirthDate == nil {
		return "id:" + f.ID.String()
	}
	return strings.Join([]string{first, last, f.ChildBirthDate.Format("2006-01-02")}, "|")
}

func countApplications(apps []model.Application) ApplicationCounts {
	var c ApplicationCounts
	for _, a := range apps {
		switch a.Status {
		case model.ApplicationPending:
			c.Pending++
		case model.ApplicationApproved:
			c.Approved++
		case model.ApplicationRejected:
			c.Rejected++
		case model.ApplicationWaitlisted:
			c.Waitlisted++
		}
	}
	return c
}

// pendingRegistrations counts pending rows that came in through the legacy
// registration tables.
func pendingRegistrations(apps []model.Application) int {
	n := 0
	for _, a := range apps {
		if a.Status == model.ApplicationPending && a.Source != model.SourceEnrollmentApplications {
			n++
		}
	}
	return n
}

// registrationFeesCollected sums fees that were both paid and verified.
func registrationFeesCollected(apps []model.Application) decimal.Decimal {
	total := decimal.Zero
	for _, a := range apps {
		if a.RegistrationFeePaid && a.PaymentVerified && a.RegistrationFeeAmount.Valid {
			total = total.Add(a.RegistrationFeeAmount.Decimal)
		}
	}
	return total
}
