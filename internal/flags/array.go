package flags

import (
	"strings"
)

// ArrayFlags collects the values of a repeatable flag. Each value may hold
// several comma separated items.
type ArrayFlags []string

// String is an implementation of the pflag.Value interface. The bracketed
// comma separated form is the one viper reads back for array flags.
func (i *ArrayFlags) String() string {
	return "[" + strings.Join(*i, ",") + "]"
}

// Set is an implementation of the pflag.Value interface.
func (i *ArrayFlags) Set(value string) error {
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			*i = append(*i, v)
		}
	}
	return nil
}

// Type is an implementation of the pflag.Value interface.
func (*ArrayFlags) Type() string {
	return "stringArray"
}
