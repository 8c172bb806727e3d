package common

import (
	"strconv"
	"time"
)

const (
	TIME_FORMAT = "2006-01-02 15:04:05"
)

//conversions below swallow parse errors on purpose: redis hands back
//strings and a zero value is the right fallback everywhere they are used

func StrToInt(s string) int {
	ret, _ := strconv.ParseInt(s, 10, 64)
	return int(ret)
}

func StrToInt64(s string) int64 {
	ret, _ := strconv.ParseInt(s, 10, 64)
	return ret
}

func StrToUint(s string) uint {
	ret, _ := strconv.ParseUint(s, 10, 64)
	return uint(ret)
}

func StrToUint64(s string) uint64 {
	ret, _ := strconv.ParseUint(s, 10, 64)
	return ret
}

func StrToBool(s string) bool {
	ret, _ := strconv.ParseBool(s)
	return ret
}

func StrToTime(s string) time.Time {
	t, _ := time.ParseInLocation(TIME_FORMAT, s, time.Local)
	return t
}

func TimeToStr(t time.Time) string {
	return t.Format(TIME_FORMAT)
}
