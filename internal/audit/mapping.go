package audit

import (
	"strings"
	"unicode"
)

// ActionResource holds action and resource derived from a gRPC full method name.
type ActionResource struct {
	Action   string
	Resource string
}

// Method overrides for RPCs whose leading verb does not describe the action.
var methodOverrides = map[string]ActionResource{
	"/ecp.rollout.v1.RolloutService/ShouldUseNewVersion": {Action: "check", Resource: "rollout"},
	"/ecp.rollout.v1.RolloutService/GetActiveRollout":    {Action: "get_active", Resource: "rollout"},
	"/ecp.experiment.v1.ExperimentService/GetResults":    {Action: "get_results", Resource: "experiment"},
	"/ecp.audit.v1.AuditService/ListAuditLogs":           {Action: "list", Resource: "audit_log"},
}

// ParseFullMethod returns action and resource for a gRPC full method (e.g. /ecp.experiment.v1.ExperimentService/StartExperiment).
// Action is the method's leading verb in lower case (start, create, evaluate, ...).
// Resource is derived from the service name (ExperimentService -> experiment).
func ParseFullMethod(fullMethod string) ActionResource {
	if ar, ok := methodOverrides[fullMethod]; ok {
		return ar
	}
	// fullMethod format: /ecp.package.v1.ServiceName/MethodName
	slash := strings.LastIndex(fullMethod, "/")
	if slash < 0 {
		return ActionResource{Action: "unknown", Resource: "unknown"}
	}
	method := fullMethod[slash+1:]
	beforeSlash := fullMethod[:slash]
	dot := strings.LastIndex(beforeSlash, ".")
	if dot < 0 {
		return ActionResource{Action: leadingVerb(method), Resource: "unknown"}
	}
	return ActionResource{Action: leadingVerb(method), Resource: serviceToResource(beforeSlash[dot+1:])}
}

func serviceToResource(serviceName string) string {
	s := strings.TrimSuffix(serviceName, "Service")
	if s == "" {
		return "unknown"
	}
	return strings.ToLower(s[0:1]) + s[1:]
}

// leadingVerb returns the first camel-case word of method, lower-cased: StartExperiment -> start.
func leadingVerb(method string) string {
	if method == "" {
		return "unknown"
	}
	for i, r := range method {
		if i > 0 && unicode.IsUpper(r) {
			return strings.ToLower(method[:i])
		}
	}
	return strings.ToLower(method)
}

// IsReadOnly reports whether the action does not change state. The audit interceptor skips these.
func IsReadOnly(action string) bool {
	switch action {
	case "get", "list", "check", "get_active", "get_results":
		return true
	default:
		return false
	}
}
