package mount

import "fmt"

// OpKind identifies a recorded primitive.
type OpKind string

const (
	OpMount       OpKind = "mount"
	OpBind        OpKind = "bind"
	OpMove        OpKind = "move"
	OpUnmount     OpKind = "unmount"
	OpMakePrivate OpKind = "private"
	OpChmod       OpKind = "chmod"
	OpChown       OpKind = "chown"
)

// Op is one recorded primitive invocation.
type Op struct {
	Kind   OpKind
	Source string
	Target string
	Fstype string
	Flags  uintptr
	Data   string
	Detach bool
	Mode   uint32
	UID    int
	GID    int
}

func (o Op) String() string {
	switch o.Kind {
	case OpBind, OpMove:
		return fmt.Sprintf("%s %s -> %s", o.Kind, o.Source, o.Target)
	default:
		return fmt.Sprintf("%s %s", o.Kind, o.Target)
	}
}

// Recorder is a Mounter that records every primitive instead of
// executing it. FailOn, when set, is consulted before recording and
// its error is returned without recording the op.
type Recorder struct {
	Ops    []Op
	FailOn func(op Op) error
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(op Op) error {
	if r.FailOn != nil {
		if err := r.FailOn(op); err != nil {
			return err
		}
	}
	r.Ops = append(r.Ops, op)
	return nil
}

// OfKind returns the recorded ops of one kind, in order.
func (r *Recorder) OfKind(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

func (r *Recorder) Mount(source, target, fstype string, flags uintptr, data string) error {
	return r.record(Op{Kind: OpMount, Source: source, Target: target, Fstype: fstype, Flags: flags, Data: data})
}

func (r *Recorder) Bind(source, target string) error {
	return r.record(Op{Kind: OpBind, Source: source, Target: target})
}

func (r *Recorder) Move(source, target string) error {
	return r.record(Op{Kind: OpMove, Source: source, Target: target})
}

func (r *Recorder) Unmount(target string, detach bool) error {
	return r.record(Op{Kind: OpUnmount, Target: target, Detach: detach})
}

func (r *Recorder) MakePrivate(target string) error {
	return r.record(Op{Kind: OpMakePrivate, Target: target})
}

func (r *Recorder) Chmod(path string, mode uint32) error {
	return r.record(Op{Kind: OpChmod, Target: path, Mode: mode})
}

func (r *Recorder) Chown(path string, uid, gid int) error {
	return r.record(Op{Kind: OpChown, Target: path, UID: uid, GID: gid})
}
