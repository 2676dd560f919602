package worker

// ExportNotifyMessage is the WebSocket payload forwarded to the client
// through Redis Pub/Sub. Field names are part of the wire contract.
type ExportNotifyMessage struct {
	Status        string `json:"status"`
	ResumeID      string `json:"resume_id"`
	CorrelationID string `json:"correlation_id"`
	ErrorCode     int    `json:"error_code"`
	ErrorMessage  string `json:"error_message"`
}
