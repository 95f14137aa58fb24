package rpc

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"

	"github.com/brianmills2718/semantic-hypergraph/internal/codec"
	"github.com/brianmills2718/semantic-hypergraph/internal/kb"
	"github.com/brianmills2718/semantic-hypergraph/internal/pattern"
	"github.com/brianmills2718/semantic-hypergraph/internal/rules"
)

// Service implements the KnowledgeBase service as a dynamic handler over
// a *kb.KB: every RPC reads and writes the canonical SH text format
// (spec.md §6.3) through internal/codec, so hyperedges travel only as
// strings; besides strings the schema has GetReply's bool `found` and
// MatchReply's repeated Binding messages.
type Service struct {
	Store *kb.KB

	fd *desc.FileDescriptor
	sd *desc.ServiceDescriptor
}

// NewService parses the embedded schema and binds it to store.
func NewService(store *kb.KB) (*Service, error) {
	fd, err := loadSchema()
	if err != nil {
		return nil, err
	}
	sd, err := findService(fd)
	if err != nil {
		return nil, err
	}
	return &Service{Store: store, fd: fd, sd: sd}, nil
}

// Register builds the grpc.ServiceDesc by hand (the teacher's
// grpcRegister pattern: no generated *_grpc.pb.go ServiceServer
// interface exists to satisfy) and registers it against server.
func (s *Service) Register(server *grpc.Server) {
	gd := &grpc.ServiceDesc{
		ServiceName: s.sd.GetFullyQualifiedName(),
		HandlerType: (*interface{})(nil),
		Metadata:    s.sd.GetFile().GetName(),
	}
	for _, md := range s.sd.GetMethods() {
		method := md
		gd.Methods = append(gd.Methods, grpc.MethodDesc{
			MethodName: method.GetName(),
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
				return srv.(*Service).handle(ctx, method, dec)
			},
		})
	}
	server.RegisterService(gd, s)
}

func (s *Service) handle(ctx context.Context, md *desc.MethodDescriptor, dec func(interface{}) error) (interface{}, error) {
	in := dynamic.NewMessage(md.GetInputType())
	if err := dec(in); err != nil {
		return nil, err
	}
	out := dynamic.NewMessage(md.GetOutputType())

	var err error
	switch md.GetName() {
	case "Insert":
		err = s.insert(in, out)
	case "Get":
		err = s.get(in, out)
	case "Match":
		err = s.match(in, out)
	case "Infer":
		err = s.infer(ctx, in, out)
	default:
		err = fmt.Errorf("rpc: unknown method %s", md.GetName())
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) insert(in, out *dynamic.Message) error {
	text, err := getString(in, "text")
	if err != nil {
		return err
	}
	h, err := codec.Parse(text)
	if err != nil {
		return err
	}
	id := s.Store.Insert(h)
	return out.TrySetFieldByName("id", string(id))
}

func (s *Service) get(in, out *dynamic.Message) error {
	id, err := getString(in, "id")
	if err != nil {
		return err
	}
	h, ok := s.Store.Get(kb.ID(id))
	if !ok {
		return out.TrySetFieldByName("found", false)
	}
	if err := out.TrySetFieldByName("found", true); err != nil {
		return err
	}
	return out.TrySetFieldByName("text", codec.Print(h))
}

func (s *Service) match(in, out *dynamic.Message) error {
	patText, err := getString(in, "pattern")
	if err != nil {
		return err
	}
	targetText, err := getString(in, "text")
	if err != nil {
		return err
	}
	p, err := pattern.Parse(patText)
	if err != nil {
		return err
	}
	h, err := codec.Parse(targetText)
	if err != nil {
		return err
	}

	bindingsFD := out.GetMessageDescriptor().FindFieldByName("bindings")
	bindingMD := bindingsFD.GetMessageType()
	for _, b := range pattern.Match(p, h) {
		bMsg := dynamic.NewMessage(bindingMD)
		values := map[interface{}]interface{}{}
		for name, bound := range b {
			values[name] = codec.Print(bound)
		}
		if err := bMsg.TrySetFieldByName("values", values); err != nil {
			return err
		}
		if err := out.TryAddRepeatedFieldByName("bindings", bMsg); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) infer(ctx context.Context, in, out *dynamic.Message) error {
	ruleTexts, err := getStringList(in, "rules")
	if err != nil {
		return err
	}

	var rs []rules.Rule
	for _, text := range ruleTexts {
		parsed, err := rules.ParseFile(text)
		if err != nil {
			return err
		}
		for _, r := range parsed {
			rs = append(rs, r)
		}
	}

	eng := rules.NewEngine(rs)
	if err := eng.Run(ctx, s.Store); err != nil {
		return err
	}

	for _, id := range s.Store.SortedIDs() {
		h, ok := s.Store.Get(id)
		if !ok {
			continue
		}
		if err := out.TryAddRepeatedFieldByName("edges", codec.Print(h)); err != nil {
			return err
		}
	}
	return nil
}

func getString(m *dynamic.Message, field string) (string, error) {
	v, err := m.TryGetFieldByName(field)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("rpc: field %s is not a string", field)
	}
	return s, nil
}

func getStringList(m *dynamic.Message, field string) ([]string, error) {
	v, err := m.TryGetFieldByName(field)
	if err != nil {
		return nil, err
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("rpc: field %s contains a non-string element", field)
		}
		out = append(out, s)
	}
	return out, nil
}
