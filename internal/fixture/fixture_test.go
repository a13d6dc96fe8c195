package fixture

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	spec := Spec{Name: "clip.wav", Duration: time.Second, SampleRate: 16000, NoiseLevel: 0.1}

	require.NoError(t, Generate(path, spec))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	sampleRate, frames, err := Info(path)
	require.NoError(t, err)
	assert.Equal(t, 16000, sampleRate)
	assert.Equal(t, 16000, frames)
}

func TestGenerate_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "clip.wav")
	spec := Spec{Duration: 500 * time.Millisecond, SampleRate: 8000, NoiseLevel: 0.3}

	require.NoError(t, Generate(path, spec))

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestGenerate_InvalidSpec(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")

	err := Generate(path, Spec{Duration: time.Second, SampleRate: 0})
	require.Error(t, err)

	err = Generate(path, Spec{Duration: 0, SampleRate: 16000})
	require.Error(t, err)
}

func TestGenerateSuite(t *testing.T) {
	dir := t.TempDir()

	paths, err := GenerateSuite(dir)
	require.NoError(t, err)
	require.Len(t, paths, 4)

	wantNames := []string{"short_clean.wav", "medium_noisy.wav", "long_very_noisy.wav", "high_freq.wav"}
	for i, path := range paths {
		assert.Equal(t, filepath.Join(dir, wantNames[i]), path)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	// short_clean is 2s at 16 kHz.
	sampleRate, frames, err := Info(paths[0])
	require.NoError(t, err)
	assert.Equal(t, 16000, sampleRate)
	assert.Equal(t, 32000, frames)
}
