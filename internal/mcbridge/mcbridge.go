// Package mcbridge connects the inferred EffectMap to an external
// model-checker service over gRPC (SPEC_FULL.md §13): it reports, for each
// pair of operators that could fire concurrently in the checked model,
// whether their inferred effects overlap on an update — a conflict the
// checker needs to know about but that the effect core itself never
// computes (the core is per-expression and single-threaded, SPEC_FULL.md
// §1, §5). Call construction is grounded on the teacher's
// internal/evaluator/builtins_grpc.go: a dynamic protobuf invocation
// (protoreflect) over a plain grpc.ClientConn, since the checker's service
// definition is supplied at runtime via vanta.yaml rather than compiled in.
package mcbridge

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/vantalang/vanta/internal/config"
	"github.com/vantalang/vanta/internal/effect"
)

// Conflict describes two operators whose effects both update the same
// state variable.
type Conflict struct {
	OperatorA, OperatorB string
	Variable             string
}

// FindConflicts compares every pair of named effects and returns one
// Conflict per state variable both members of a pair update — the
// candidate set a caller would then forward to the external checker to
// confirm they can actually fire concurrently in the checked model.
func FindConflicts(operators map[string]effect.Effect) []Conflict {
	names := make([]string, 0, len(operators))
	for name := range operators {
		names = append(names, name)
	}

	var conflicts []Conflict
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			a, b := names[i], names[j]
			for _, v := range sharedUpdates(operators[a], operators[b]) {
				conflicts = append(conflicts, Conflict{OperatorA: a, OperatorB: b, Variable: v})
			}
		}
	}
	return conflicts
}

func sharedUpdates(a, b effect.Effect) []string {
	ua := updateNames(a)
	ub := make(map[string]bool, len(ua))
	for _, n := range updateNames(b) {
		ub[n] = true
	}
	var shared []string
	for _, n := range ua {
		if ub[n] {
			shared = append(shared, n)
		}
	}
	return shared
}

func updateNames(e effect.Effect) []string {
	c, ok := e.(effect.Concrete)
	if !ok {
		return nil
	}
	return concreteNames(c.Update)
}

func concreteNames(v effect.Vars) []string {
	switch t := v.(type) {
	case effect.ConcreteVars:
		return t.Names
	case effect.UnionVars:
		var names []string
		for _, c := range t.Children {
			names = append(names, concreteNames(c)...)
		}
		return names
	default:
		return nil
	}
}

// Client dials an external model checker and invokes its conflict-check
// service without a compiled protobuf stub, using the same
// protoreflect/dynamic pattern as the teacher's grpcInvoke builtin.
type Client struct {
	conn  *grpc.ClientConn
	files map[string]*desc.FileDescriptor
}

// Dial connects to target. The returned Client has no .proto files loaded;
// ReportConflicts only finds methods in files added afterwards with LoadProto.
func Dial(target string) (*Client, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dialing model checker at %s: %w", target, err)
	}
	return &Client{conn: conn, files: map[string]*desc.FileDescriptor{}}, nil
}

// LoadProto parses protoFile and registers its message/service descriptors
// for later lookup by ReportConflicts.
func (c *Client) LoadProto(protoFile string) error {
	parser := protoparse.Parser{ImportPaths: []string{"."}}
	fds, err := parser.ParseFiles(protoFile)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", protoFile, err)
	}
	for _, fd := range fds {
		c.files[fd.GetName()] = fd
	}
	return nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// ReportConflicts invokes the configured service/method with a message
// built from conflicts and returns the raw response fields, since the
// checker's own response schema is not known at compile time.
func (c *Client) ReportConflicts(ctx context.Context, cfg config.ModelCheckerConfig, conflicts []Conflict) (map[string]any, error) {
	md, err := c.findMethod(cfg.Service)
	if err != nil {
		return nil, err
	}

	req := dynamic.NewMessage(md.GetInputType())
	if err := populateConflictsField(req, conflicts); err != nil {
		return nil, fmt.Errorf("building request for %s: %w", cfg.Service, err)
	}

	resp := dynamic.NewMessage(md.GetOutputType())
	methodPath := "/" + cfg.Service
	if err := c.conn.Invoke(ctx, methodPath, req, resp); err != nil {
		return nil, fmt.Errorf("invoking %s: %w", cfg.Service, err)
	}

	out := map[string]any{}
	for _, field := range resp.GetKnownFields() {
		out[field.GetName()] = resp.GetField(field)
	}
	return out, nil
}

func (c *Client) findMethod(fullyQualified string) (*desc.MethodDescriptor, error) {
	for _, fd := range c.files {
		for _, svc := range fd.GetServices() {
			for _, m := range svc.GetMethods() {
				if svc.GetFullyQualifiedName()+"/"+m.GetName() == fullyQualified {
					return m, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("method %s not found in any loaded proto file", fullyQualified)
}

// populateConflictsField fills the first repeated message field it finds
// on req with one entry per conflict, matching each conflict's fields by
// name (operator_a, operator_b, variable) — a best-effort mapping since the
// checker's exact schema is only known at runtime.
func populateConflictsField(req *dynamic.Message, conflicts []Conflict) error {
	md := req.GetMessageDescriptor()
	for _, field := range md.GetFields() {
		if !field.IsRepeated() || field.GetMessageType() == nil {
			continue
		}
		for _, conflict := range conflicts {
			entry := dynamic.NewMessage(field.GetMessageType())
			setStringField(entry, "operator_a", conflict.OperatorA)
			setStringField(entry, "operator_b", conflict.OperatorB)
			setStringField(entry, "variable", conflict.Variable)
			if err := req.TryAddRepeatedField(field, entry); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("message %s has no repeated message field to hold conflicts", md.GetFullyQualifiedName())
}

func setStringField(m *dynamic.Message, name, value string) {
	if fd := m.GetMessageDescriptor().FindFieldByName(name); fd != nil {
		m.SetField(fd, value)
	}
}
