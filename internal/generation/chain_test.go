package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/StyNW7/Zenium/pkg/models"
)

type stubStrategy struct {
	name  string
	reply string
	err   error
	calls int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Generate(ctx context.Context, req Request) (string, error) {
	s.calls++
	return s.reply, s.err
}

func TestChainFirstSuccessWins(t *testing.T) {
	first := &stubStrategy{name: "first", reply: "from first"}
	second := &stubStrategy{name: "second", reply: "from second"}
	chain := NewChain(first, second)

	assert.Equal(t, "from first", chain.Generate(context.Background(), Request{}))
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)
}

func TestChainFallsThroughOnError(t *testing.T) {
	hosted := &stubStrategy{name: "hosted", err: errors.New("unreachable")}
	local := &stubStrategy{name: "local", reply: "local reply"}
	chain := NewChain(hosted, local)

	assert.Equal(t, "local reply", chain.Generate(context.Background(), Request{}))
	assert.Equal(t, 1, hosted.calls)
	assert.Equal(t, 1, local.calls)
}

func TestChainFallsThroughOnEmpty(t *testing.T) {
	empty := &stubStrategy{name: "empty", reply: "   "}
	next := &stubStrategy{name: "next", reply: "real reply"}
	chain := NewChain(empty, next)

	assert.Equal(t, "real reply", chain.Generate(context.Background(), Request{}))
}

func TestChainRetrievedFallback(t *testing.T) {
	hosted := &stubStrategy{name: "hosted", err: errors.New("down")}
	local := &stubStrategy{name: "local", err: errors.New("down")}
	chain := NewChain(hosted, local, RetrievedStrategy{}, StaticStrategy{})

	req := Request{Retrieved: []models.RetrievedExample{
		{Entry: models.CorpusEntry{Query: "q", Response: "Top retrieved response."}, Score: 0.8},
	}}
	out := chain.Generate(context.Background(), req)
	assert.Contains(t, out, "Top retrieved response.")
	assert.Contains(t, out, ReflectivePrompt)
}

func TestChainTerminalStatic(t *testing.T) {
	hosted := &stubStrategy{name: "hosted", err: errors.New("down")}
	chain := NewChain(hosted, RetrievedStrategy{}, StaticStrategy{})

	// Nothing retrieved, every backend down: the generic reply.
	assert.Equal(t, GenericReply, chain.Generate(context.Background(), Request{}))
}

func TestChainNoStrategies(t *testing.T) {
	chain := NewChain()
	assert.Equal(t, GenericReply, chain.Generate(context.Background(), Request{}))
}

func TestChainTrimsReply(t *testing.T) {
	s := &stubStrategy{name: "s", reply: "  padded  \n"}
	assert.Equal(t, "padded", NewChain(s).Generate(context.Background(), Request{}))
}
