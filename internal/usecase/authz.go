package usecase

import (
	"yamdb/internal/access"
	"yamdb/internal/metrics"
	"yamdb/pkg/errs"
)

// deny picks the error for a refused check: anonymous callers are asked to
// authenticate, everyone else is forbidden.
func deny(p access.Principal) error {
	if !p.IsAuthenticated() {
		return errs.ErrAuthRequired
	}
	return errs.ErrPermissionDenied
}

func requireAccess(p access.Principal, op access.Operation, class access.ResourceClass) error {
	if access.CanAccess(p, op, class) {
		return nil
	}
	err := deny(p)
	observeDenied(class, op, err)
	return err
}

func requireInstance(p access.Principal, op access.Operation, res access.Resource) error {
	if access.CanAccessInstance(p, op, res) {
		metrics.AuthzDecisionsTotal.WithLabelValues(string(res.Class()), string(op), "allow").Inc()
		return nil
	}
	err := deny(p)
	observeDenied(res.Class(), op, err)
	return err
}

func observeDenied(class access.ResourceClass, op access.Operation, err error) {
	result := "forbidden"
	if errs.KindOf(err) == errs.KindUnauthorized {
		result = "unauthorized"
	}
	metrics.AuthzDecisionsTotal.WithLabelValues(string(class), string(op), result).Inc()
}
