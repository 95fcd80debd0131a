// Package http provides the HTTP handlers and middleware for the time-clock API.
//
// The router exposes the following endpoints:
//   - POST /sessions: authenticates a principal and issues an access token.
//     Body: {"principal","secret"}. Response: {"principal","token","expires_at"}.
//     A successful login also creates the principal's ledger when absent.
//   - POST /punches: records one attendance event for the authenticated
//     principal. Body: {"kind"} with kind one of "entrada", "saida",
//     "almoco_inicio", "almoco_fim". Responds 409 when the kind was already
//     recorded on the current calendar day.
//   - GET /punches/today: returns the per-kind recorded mapping for today,
//     which clients use to enable or disable their punch actions.
//   - GET /reports/{MM-YYYY}: builds the monthly extract as a logical line
//     sequence (title, day lines, page breaks). Responds 404 with REPORT_EMPTY
//     when the period holds no events.
//   - GET /healthz: liveness probe, 204 No Content.
//
// All endpoints except /sessions and /healthz require a Bearer access token.
// Request/response DTOs live alongside their respective handlers.
package http
