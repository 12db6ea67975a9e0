package rectpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartPacking_ReportsProgressAndReturnsPacker(t *testing.T) {
	sources := randomSources(5, 64, NewSize(4, 4), NewSize(32, 32))
	sources[10].ReplicaOf = sources[2].Name
	packer := NewPacker("bg", sources, NewSettings(MethodDistance, 0, true, nil))

	job := StartPacking(packer)
	total := 0
	for n := range job.Progress() {
		total += n
	}
	result, err := job.Wait()
	require.NoError(t, err)
	require.Same(t, packer, result)
	assert.Equal(t, 63, total)
	assert.Equal(t, StatePacked, result.State())
}

func TestStartPacking_CallerMayIgnoreProgress(t *testing.T) {
	sources := randomSources(9, 32, NewSize(4, 4), NewSize(16, 16))
	job := StartPacking(NewPacker("quiet", sources, NewSettings(MethodArea, 0, false, nil)))
	result, err := job.Wait()
	require.NoError(t, err)
	assert.Equal(t, 32, result.Count())
}

func TestStartPacking_PackingErrorIsAValue(t *testing.T) {
	sources := []SourceTexture{NewSourceTexture("huge", "huge.png", 50, 50)}
	job := StartPacking(NewPacker("p", sources, fixedSettings(40, 40)))
	for range job.Progress() {
	}
	result, err := job.Wait()
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrPackingFailed)
	assert.NotErrorIs(t, err, ErrWorkerFailed)
}

func TestStartPacking_PanicIsWorkerFailure(t *testing.T) {
	packer := NewPacker("broken", []SourceTexture{NewSourceTexture("a", "a", 1, 1)}, NewSettings(MethodDistance, 0, false, nil))
	packer.pages = []*Page{nil}

	result, err := StartPacking(packer).Wait()
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrWorkerFailed)
	assert.NotErrorIs(t, err, ErrPackingFailed)
}
