package dao

import (
	"RelayOnlineJudge/common"
)

// Col is one column value pulled from mysql or redis. Redis hands back
// strings, so every accessor special-cases that; no error reporting,
// zero values on mismatch.
type Col struct {
	data interface{}
}

func (c *Col) ToString() string {
	if s, ok := c.data.(string); ok {
		return s
	}
	return string(c.data.([]byte))
}

func (c *Col) ToInt64() int64 {
	if s, ok := c.data.(string); ok {
		return common.StrToInt64(s)
	}
	return c.data.(int64)
}

func (c *Col) ToBool() bool {
	if s, ok := c.data.(string); ok {
		return common.StrToBool(s)
	}
	return c.data.(int64) == 1
}

func (c *Col) ToUint() uint {
	if s, ok := c.data.(string); ok {
		return common.StrToUint(s)
	}
	return uint(c.ToInt64())
}

func ToSqlConditions(cols []string) string {
	sql := cols[0] + " = ?"
	for i := 1; i < len(cols); i++ {
		sql += " and " + cols[i] + " = ?"
	}
	return sql
}
