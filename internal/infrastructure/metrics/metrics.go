package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Values of the "result" label.
const (
	UserRegistered   = "user_registered"
	LoginSuccess     = "login_success"
	LoginFailure     = "login_failure"
	PasswordMigrated = "password_migrated"
	UserDeleted      = "user_deleted"
	UserRestored     = "user_restored"
	UserPurged       = "user_purged"
	AdminSeeded      = "admin_seeded"
	EventDropped     = "event_dropped"
)

func NewCounter() *prometheus.CounterVec {
	return NewCounterWith(prometheus.DefaultRegisterer)
}

// NewCounterWith registers the counter on reg; tests pass a fresh registry.
func NewCounterWith(reg prometheus.Registerer) *prometheus.CounterVec {
	return promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "useraccount",
			Name:      "general_counters",
		},
		[]string{"result"})
}
