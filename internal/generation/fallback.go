package generation

import "context"

// ReflectivePrompt is appended to a retrieved response when no backend
// could generate.
const ReflectivePrompt = "If you'd like, tell me more about that."

// RetrievedStrategy degrades to the single best-retrieved response,
// augmented with a generic invitation to continue. With nothing retrieved
// it yields empty and the chain falls through.
type RetrievedStrategy struct{}

func (RetrievedStrategy) Name() string { return "retrieved" }

func (RetrievedStrategy) Generate(ctx context.Context, req Request) (string, error) {
	if len(req.Retrieved) == 0 {
		return "", nil
	}
	return req.Retrieved[0].Entry.Response + "\n\n" + ReflectivePrompt, nil
}

// StaticStrategy is the guaranteed terminal step: a fixed acknowledgment
// plus an open question. It can never fail, so the chain as a whole can
// never fail.
type StaticStrategy struct{}

func (StaticStrategy) Name() string { return "static" }

func (StaticStrategy) Generate(ctx context.Context, req Request) (string, error) {
	return GenericReply, nil
}
