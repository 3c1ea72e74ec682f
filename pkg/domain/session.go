package domain

import "time"

type SessionState string

const (
	StateIdle      SessionState = "idle"
	StateReady     SessionState = "ready"
	StateAnalyzing SessionState = "analyzing"
	StateDone      SessionState = "done"
	StateFailed    SessionState = "failed"
)

// Session is the per-browser state of the analyzer page.
type Session struct {
	ID           string
	State        SessionState
	Policy       *Document
	Bill         *Document
	Model        string
	CustomPrompt string
	Result       *Analysis
	LastError    string
	// Notice is a one-shot message for the next page render, such as a rejected upload.
	Notice    string
	UpdatedAt time.Time
}

func NewSession(id, model string) *Session {
	return &Session{
		ID:        id,
		State:     StateIdle,
		Model:     model,
		UpdatedAt: time.Now(),
	}
}

// HasDocuments reports whether both uploads are present and non-empty.
func (s *Session) HasDocuments() bool {
	return !s.Policy.Empty() && !s.Bill.Empty()
}

// CanAnalyze reports whether the trigger may fire in the current state.
func (s *Session) CanAnalyze() bool {
	return s.State != StateAnalyzing && s.HasDocuments()
}

func (s *Session) Attach(doc *Document) {
	switch doc.Kind {
	case DocumentPolicy:
		s.Policy = doc
	case DocumentBill:
		s.Bill = doc
	}
	s.settle()
}

func (s *Session) Detach(kind DocumentKind) {
	switch kind {
	case DocumentPolicy:
		s.Policy = nil
	case DocumentBill:
		s.Bill = nil
	}
	s.settle()
}

// Begin moves the session into Analyzing and returns the request to run.
func (s *Session) Begin(model, customPrompt string) (AnalysisRequest, error) {
	if s.State == StateAnalyzing {
		return AnalysisRequest{}, ErrAnalysisInProgress
	}
	if !s.HasDocuments() {
		return AnalysisRequest{}, ErrDocumentsMissing
	}

	s.Model = model
	s.CustomPrompt = customPrompt
	s.State = StateAnalyzing
	s.LastError = ""
	s.touch()

	return AnalysisRequest{
		Policy:       s.Policy,
		Bill:         s.Bill,
		Model:        model,
		CustomPrompt: customPrompt,
	}, nil
}

func (s *Session) Complete(result *Analysis) {
	s.Result = result
	s.LastError = ""
	s.State = StateDone
	s.touch()
}

// Fail records err; the documents are kept so the trigger can fire again.
func (s *Session) Fail(err error) {
	s.Result = nil
	s.LastError = err.Error()
	s.State = StateFailed
	s.touch()
}

func (s *Session) Reset() {
	s.Policy = nil
	s.Bill = nil
	s.Result = nil
	s.LastError = ""
	s.CustomPrompt = ""
	s.State = StateIdle
	s.touch()
}

func (s *Session) settle() {
	switch {
	case s.State == StateAnalyzing:
	case !s.HasDocuments():
		s.State = StateIdle
	case s.State == StateIdle:
		s.State = StateReady
	}
	s.touch()
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}
