package logx

type nop struct{}

// Nop returns a Logger that discards everything. Used in tests and as a safe
// default before the real logger is wired.
func Nop() Logger { return nop{} }

var _ Logger = nop{}

func (nop) Debug(string, ...Field) {}
func (nop) Info(string, ...Field)  {}
func (nop) Warn(string, ...Field)  {}
func (nop) Error(string, ...Field) {}

func (nop) With(...Field) Logger { return nop{} }

func (nop) Sync() error { return nil }
