package script

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScript = `# power-up sequence
freq,1,80MHz

pow,1,30dBm  # max rated power
   on,1
# done
`

func TestScanner(t *testing.T) {
	s := New(strings.NewReader(testScript))

	type entry struct {
		num  int
		line string
	}

	var got []entry
	for s.Scan() {
		got = append(got, entry{s.LineNum(), s.Line()})
	}
	require.NoError(t, s.Err())

	want := []entry{
		{2, "freq,1,80MHz"},
		{4, "pow,1,30dBm"},
		{5, "on,1"},
	}
	assert.Equal(t, want, got)
}

func TestScanner_Empty(t *testing.T) {
	s := New(strings.NewReader("# only comments\n\n  \n"))
	assert.False(t, s.Scan())
	assert.NoError(t, s.Err())
}

func TestScanner_All(t *testing.T) {
	s := New(strings.NewReader("a\nb\nc\n"))

	var nums []int
	var lines []string
	for num, line := range s.All() {
		nums = append(nums, num)
		lines = append(lines, line)
	}

	assert.Equal(t, []int{1, 2, 3}, nums)
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}

func TestScanner_AllStopsEarly(t *testing.T) {
	s := New(strings.NewReader("a\nb\nc\n"))

	for _, line := range s.All() {
		if line == "b" {
			break
		}
	}

	assert.Equal(t, 2, s.LineNum())
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setup.mog")
	require.NoError(t, os.WriteFile(path, []byte(testScript), 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	require.True(t, s.Scan())
	assert.Equal(t, "freq,1,80MHz", s.Line())
	assert.Equal(t, 2, s.LineNum())
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.mog"))
	assert.Error(t, err)
}
