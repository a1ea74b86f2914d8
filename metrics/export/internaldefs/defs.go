package internaldefs

import (
	goBlog "github.com/MrEthical07/goBlog"
)

// CounterDef names one goBlog counter for exporters.
type CounterDef struct {
	ID   goBlog.MetricID
	Name string
	Help string
}

// HistogramDef names one goBlog histogram for exporters.
type HistogramDef struct {
	ID   goBlog.MetricID
	Name string
	Help string
}

// AuditDroppedName is exported alongside the engine counters.
const (
	AuditDroppedName = "goblog_audit_dropped_total"
	AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."
)

var CounterDefs = []CounterDef{
	{ID: goBlog.MetricSignupSuccess, Name: "goblog_signup_success_total", Help: "Successful signups."},
	{ID: goBlog.MetricSignupInvalid, Name: "goblog_signup_invalid_total", Help: "Signups rejected by field validation."},
	{ID: goBlog.MetricSignupDuplicate, Name: "goblog_signup_duplicate_total", Help: "Signups rejected because the username exists."},
	{ID: goBlog.MetricLoginSuccess, Name: "goblog_login_success_total", Help: "Successful logins."},
	{ID: goBlog.MetricLoginFailure, Name: "goblog_login_failure_total", Help: "Failed logins."},
	{ID: goBlog.MetricSessionIssued, Name: "goblog_session_issued_total", Help: "Session tokens issued."},
	{ID: goBlog.MetricSessionRejected, Name: "goblog_session_rejected_total", Help: "Session tokens that failed verification."},
	{ID: goBlog.MetricLogout, Name: "goblog_logout_total", Help: "Logouts."},
	{ID: goBlog.MetricPostCreated, Name: "goblog_post_created_total", Help: "Posts created."},
	{ID: goBlog.MetricPostUpdated, Name: "goblog_post_updated_total", Help: "Posts edited."},
	{ID: goBlog.MetricPostDeleted, Name: "goblog_post_deleted_total", Help: "Posts deleted."},
	{ID: goBlog.MetricPostLiked, Name: "goblog_post_liked_total", Help: "Likes recorded."},
	{ID: goBlog.MetricCommentCreated, Name: "goblog_comment_created_total", Help: "Comments created."},
	{ID: goBlog.MetricCommentUpdated, Name: "goblog_comment_updated_total", Help: "Comments edited."},
	{ID: goBlog.MetricCommentDeleted, Name: "goblog_comment_deleted_total", Help: "Comments deleted."},
	{ID: goBlog.MetricCascadeDeleted, Name: "goblog_cascade_deleted_total", Help: "Comments removed by post delete cascade."},
	{ID: goBlog.MetricGuardForbidden, Name: "goblog_guard_forbidden_total", Help: "Requests denied for a signed-in user."},
	{ID: goBlog.MetricGuardUnauthenticated, Name: "goblog_guard_unauthenticated_total", Help: "Mutations attempted without a session."},
	{ID: goBlog.MetricNotFound, Name: "goblog_not_found_total", Help: "Lookups of missing posts or comments."},
	{ID: goBlog.MetricBackendError, Name: "goblog_backend_error_total", Help: "Store failures."},
}

var HistogramDefs = []HistogramDef{
	{ID: goBlog.MetricRequestLatency, Name: "goblog_request_latency_seconds", Help: "HTTP request latency."},
}

// HistogramBounds are the upper bounds of the engine's latency buckets in
// seconds, in Prometheus le notation.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds in a form usable inside
// instrument names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies raw into a fixed array, zero-filling short input.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
