package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStrConversions(t *testing.T) {
	assert.Equal(t, 42, StrToInt("42"))
	assert.Equal(t, 0, StrToInt("not a number"))
	assert.Equal(t, int64(-7), StrToInt64("-7"))
	assert.Equal(t, uint(120), StrToUint("120"))
	assert.Equal(t, uint64(0), StrToUint64("-1"))
	assert.True(t, StrToBool("true"))
	assert.False(t, StrToBool(""))
}

func TestTimeRoundTrip(t *testing.T) {
	in := time.Date(2026, 3, 14, 9, 30, 0, 0, time.Local)
	assert.Equal(t, "2026-03-14 09:30:00", TimeToStr(in))
	assert.Equal(t, in, StrToTime("2026-03-14 09:30:00"))
	assert.True(t, StrToTime("garbage").IsZero())
}
