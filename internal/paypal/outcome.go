package paypal

// CaptureOutcome is the validated result of a capture call. Exactly one
// concrete type is returned per call; transport and API failures surface
// as errors instead.
type CaptureOutcome interface {
	isCaptureOutcome()
}

// Completed means the provider reports funds were captured.
type Completed struct {
	CapturedAmount float64
	Raw            []byte
}

// Denied means the provider answered but declined the capture.
type Denied struct {
	Status string
	Raw    []byte
}

func (Completed) isCaptureOutcome() {}
func (Denied) isCaptureOutcome()    {}
