package ptr

import "time"

// String: 문자열 포인터를 만든다.
func String(v string) *string { return &v }

// Int: int 포인터를 만든다.
func Int(v int) *int { return &v }

// Int64: int64 포인터를 만든다.
func Int64(v int64) *int64 { return &v }

// Bool: bool 포인터를 만든다.
func Bool(v bool) *bool { return &v }

// Time: time.Time 포인터를 만든다.
func Time(v time.Time) *time.Time { return &v }

// Duration: time.Duration 포인터를 만든다.
func Duration(v time.Duration) *time.Duration { return &v }
