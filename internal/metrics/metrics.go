package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OTPIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skillhive_otp_issued_total",
		Help: "One-time passcodes issued.",
	})

	Logins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skillhive_logins_total",
		Help: "Successful OTP verifications.",
	})

	ResourcesImported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skillhive_resources_imported_total",
		Help: "Resource rows persisted by the import pipeline.",
	})

	ImportRowsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skillhive_import_rows_skipped_total",
		Help: "Spreadsheet rows skipped for missing a name.",
	})

	Evaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillhive_evaluations_total",
		Help: "Evaluation status transitions by target status.",
	}, []string{"status"})

	ApplicationsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skillhive_applications_total",
		Help: "Self-service applications submitted.",
	})

	ApplicationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillhive_application_transitions_total",
		Help: "Application status transitions by target status.",
	}, []string{"status"})
)
