package judger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPrefix(t *testing.T) {
	tests := []struct {
		raw     string
		pending bool
		verdict string
	}{
		{"In Queue", true, ""},
		{"in queue", true, ""},
		{"Running", true, ""},
		{"Running on test 12", true, ""},
		{"  Running on test 3  ", true, ""},
		{"IN QUEUE", true, ""},
		{"Accepted", false, "accepted"},
		{" Accepted ", false, "accepted"},
		{"Wrong answer on test 2", false, "wrong answer on test 2"},
		{"Time limit exceeded on test 7", false, "time limit exceeded on test 7"},
		{"Idleness limit exceeded", false, "idleness limit exceeded"},
		{"Compilation error", false, "compilation error"},
		{"Memory limit exceeded on test 1", false, "memory limit exceeded on test 1"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			out := ClassifyPrefix(tt.raw)
			assert.Equal(t, tt.pending, out.Pending)
			assert.Equal(t, tt.verdict, out.Verdict)
		})
	}
}
