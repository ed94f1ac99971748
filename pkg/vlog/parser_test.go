package vlog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vlogscan/vlogscan-go/pkg/vlog"
	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

// stubParser returns canned results for chain tests.
func stubParser(matched bool, subject string, err error) vlog.Parser {
	return vlog.ParserFunc(func(ctx context.Context, line string) (vlog.ParseResult, error) {
		if err != nil {
			return vlog.ParseResult{}, err
		}
		if !matched {
			return vlog.ParseResult{Matched: false}, nil
		}
		return vlog.ParseResult{
			Records: []record.Record{{Subject: subject, Raw: line}},
			Matched: true,
		}, nil
	})
}

func TestDefaultParser_ParseLine(t *testing.T) {
	p := vlog.DefaultParser{}

	res, err := p.ParseLine(context.Background(), "2024-01-01T10:00:00 user=alice action=login ip=10.0.0.5")
	require.NoError(t, err)
	require.True(t, res.Matched)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "alice", res.Records[0].Subject)
	assert.Equal(t, "login", res.Records[0].Action)
}

func TestDefaultParser_Unrecognized(t *testing.T) {
	p := vlog.DefaultParser{}

	res, err := p.ParseLine(context.Background(), "????garbage????")
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.Empty(t, res.Records)
}

func TestDefaultParser_Malformed(t *testing.T) {
	p := vlog.DefaultParser{}

	_, err := p.ParseLine(context.Background(), "0xDEAD[ts:notanumber]|EVNT:broken")
	require.Error(t, err)
}

func TestParseLine_Convenience(t *testing.T) {
	rec, err := vlog.ParseLine("0x4F2A[ts:1704103200]|EVNT:SESSION!@OPEN_USR:alice=>workstation-1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "alice", rec.Subject)
	assert.Equal(t, "OPEN", rec.Action)
	assert.Equal(t, "workstation-1", rec.Target)
}

func TestParserChain_ChainAll(t *testing.T) {
	chain := &vlog.ParserChain{
		Mode: vlog.ChainAll,
		Parsers: []vlog.Parser{
			stubParser(true, "first", nil),
			stubParser(false, "", nil),
			stubParser(true, "second", nil),
		},
	}

	res, err := chain.ParseLine(context.Background(), "line")
	require.NoError(t, err)
	require.True(t, res.Matched)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "first", res.Records[0].Subject)
	assert.Equal(t, "second", res.Records[1].Subject)
}

func TestParserChain_ChainFirst(t *testing.T) {
	chain := &vlog.ParserChain{
		Mode: vlog.ChainFirst,
		Parsers: []vlog.Parser{
			stubParser(false, "", nil),
			stubParser(true, "winner", nil),
			stubParser(true, "never reached", nil),
		},
	}

	res, err := chain.ParseLine(context.Background(), "line")
	require.NoError(t, err)
	require.True(t, res.Matched)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "winner", res.Records[0].Subject)
}

func TestParserChain_ErrorStopsChain(t *testing.T) {
	boom := errors.New("boom")
	chain := &vlog.ParserChain{
		Mode: vlog.ChainAll,
		Parsers: []vlog.Parser{
			stubParser(false, "", boom),
			stubParser(true, "unreached", nil),
		},
	}

	_, err := chain.ParseLine(context.Background(), "line")
	require.ErrorIs(t, err, boom)
}

func TestParserChain_ContinueOnError(t *testing.T) {
	boom := errors.New("boom")
	chain := &vlog.ParserChain{
		Mode: vlog.ChainContinueOnError,
		Parsers: []vlog.Parser{
			stubParser(false, "", boom),
			stubParser(true, "survivor", nil),
		},
	}

	res, err := chain.ParseLine(context.Background(), "line")
	require.ErrorIs(t, err, boom)
	assert.True(t, res.Matched)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "survivor", res.Records[0].Subject)
}

func TestParserChain_NilParsersSkipped(t *testing.T) {
	chain := &vlog.ParserChain{
		Parsers: []vlog.Parser{nil, stubParser(true, "only", nil)},
	}

	res, err := chain.ParseLine(context.Background(), "line")
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
}

func TestParserChain_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chain := &vlog.ParserChain{
		Parsers: []vlog.Parser{stubParser(true, "never", nil)},
	}

	_, err := chain.ParseLine(ctx, "line")
	require.ErrorIs(t, err, context.Canceled)
}
