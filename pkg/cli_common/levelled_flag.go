package clicommon

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// LevelledFlag counts repetitions of a boolean flag: `-v` is 1, `-vv` is 2. An explicit number sets the level.
type LevelledFlag int

var _ pflag.Value = (*LevelledFlag)(nil)

func (f *LevelledFlag) Set(s string) error {
	if on, err := strconv.ParseBool(s); err == nil {
		if on {
			*f++
		} else if *f > 0 {
			*f--
		}
		return nil
	}
	level, err := strconv.Atoi(s)
	if err != nil || level < 0 {
		return errors.Errorf("invalid level %q, expected a boolean or a non-negative number", s)
	}
	*f = LevelledFlag(level)
	return nil
}

func (f *LevelledFlag) Type() string {
	return "levelled_flag"
}

func (f *LevelledFlag) String() string {
	return strconv.Itoa(int(*f))
}

// AtLeast reports whether the flag was given at least n times.
func (f *LevelledFlag) AtLeast(n int) bool {
	return int(*f) >= n
}
