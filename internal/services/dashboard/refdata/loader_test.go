package refdata

import (
	"context"
	"errors"
	"testing"

	"visitsdash/internal/services/dashboard/domain"

	"github.com/stretchr/testify/require"
)

type fakeRef struct {
	cats    []string
	dmas    []string
	catErr  error
	dmaErr  error
	release chan struct{}
}

func (f *fakeRef) Categories(ctx context.Context) ([]string, error) {
	if f.release != nil {
		<-f.release
	}
	return f.cats, f.catErr
}

func (f *fakeRef) DMAs(ctx context.Context) ([]string, error) {
	if f.release != nil {
		// categories cannot finish until dmas has started, proving both run at once
		close(f.release)
	}
	return f.dmas, f.dmaErr
}

type captureSink struct{ got []domain.ReferenceData }

func (s *captureSink) LoadReference(_ context.Context, d domain.ReferenceData) error {
	s.got = append(s.got, d)
	return nil
}

func TestLoad_Both(t *testing.T) {
	src := &fakeRef{
		cats:    []string{"Retail", "Dining"},
		dmas:    []string{"Boston"},
		release: make(chan struct{}),
	}
	got := Load(context.Background(), src)
	require.Equal(t, []string{"Retail", "Dining"}, got.Categories)
	require.Equal(t, []string{"Boston"}, got.DMAs)
}

func TestLoad_FailureLeavesListEmpty(t *testing.T) {
	src := &fakeRef{dmas: []string{"Denver"}, catErr: errors.New("down")}
	got := Load(context.Background(), src)
	require.NotNil(t, got.Categories)
	require.Empty(t, got.Categories)
	require.Equal(t, []string{"Denver"}, got.DMAs, "dmas should survive a categories failure")
}

func TestLoad_BothFail(t *testing.T) {
	src := &fakeRef{catErr: errors.New("x"), dmaErr: errors.New("y")}
	got := Load(context.Background(), src)
	require.NotNil(t, got.Categories)
	require.NotNil(t, got.DMAs)
}

func TestLoadInto_HandsToSink(t *testing.T) {
	sink := &captureSink{}
	src := &fakeRef{cats: []string{"A"}, dmas: []string{"B"}}
	require.NoError(t, LoadInto(context.Background(), src, sink))
	require.Len(t, sink.got, 1)
	require.Equal(t, []string{"A"}, sink.got[0].Categories)
}
