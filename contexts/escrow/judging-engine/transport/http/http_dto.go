package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JudgeResponse reports the committed verdict. Mode is "consensus" when the
// result came from replicated evaluation and "single" otherwise.
type JudgeResponse struct {
	JobID    uint64 `json:"job_id"`
	Verdict  string `json:"verdict"`
	Feedback string `json:"feedback"`
	Mode     string `json:"mode"`
}
