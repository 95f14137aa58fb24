package rpc

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client is a thin dynamic-message wrapper over a *grpc.ClientConn,
// mirroring the teacher's grpcConnect/grpcInvoke pair: no generated
// client stub exists, so every call builds its request message against
// the schema descriptor and invokes the method path directly.
type Client struct {
	conn *grpc.ClientConn
	sd   *desc.ServiceDescriptor
}

// Dial opens an insecure connection to target and loads the embedded
// schema to resolve method descriptors against.
func Dial(target string) (*Client, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	fd, err := loadSchema()
	if err != nil {
		conn.Close()
		return nil, err
	}
	sd, err := findService(fd)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &Client{conn: conn, sd: sd}, nil
}

func (c *Client) Close() error { return c.conn.Close() }

func (c *Client) invoke(ctx context.Context, methodName string, in *dynamic.Message) (*dynamic.Message, error) {
	md := c.sd.FindMethodByName(methodName)
	if md == nil {
		return nil, fmt.Errorf("rpc: method %s not found in schema", methodName)
	}
	out := dynamic.NewMessage(md.GetOutputType())
	path := "/" + c.sd.GetFullyQualifiedName() + "/" + methodName
	if err := c.conn.Invoke(ctx, path, in, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) newRequest(methodName string) (*dynamic.Message, error) {
	md := c.sd.FindMethodByName(methodName)
	if md == nil {
		return nil, fmt.Errorf("rpc: method %s not found in schema", methodName)
	}
	return dynamic.NewMessage(md.GetInputType()), nil
}

// Insert stores text (in canonical SH form) and returns its content ID.
func (c *Client) Insert(ctx context.Context, text string) (string, error) {
	in, err := c.newRequest("Insert")
	if err != nil {
		return "", err
	}
	if err := in.TrySetFieldByName("text", text); err != nil {
		return "", err
	}
	out, err := c.invoke(ctx, "Insert", in)
	if err != nil {
		return "", err
	}
	id, err := getString(out, "id")
	if err != nil {
		return "", err
	}
	return id, nil
}

// Get fetches the canonical text of id, reporting whether it was found.
func (c *Client) Get(ctx context.Context, id string) (text string, found bool, err error) {
	in, err := c.newRequest("Get")
	if err != nil {
		return "", false, err
	}
	if err := in.TrySetFieldByName("id", id); err != nil {
		return "", false, err
	}
	out, err := c.invoke(ctx, "Get", in)
	if err != nil {
		return "", false, err
	}
	foundVal, err := out.TryGetFieldByName("found")
	if err != nil {
		return "", false, err
	}
	found, _ = foundVal.(bool)
	if !found {
		return "", false, nil
	}
	text, err = getString(out, "text")
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

// Match runs pat against text, returning one map per binding.
func (c *Client) Match(ctx context.Context, pat, text string) ([]map[string]string, error) {
	in, err := c.newRequest("Match")
	if err != nil {
		return nil, err
	}
	if err := in.TrySetFieldByName("pattern", pat); err != nil {
		return nil, err
	}
	if err := in.TrySetFieldByName("text", text); err != nil {
		return nil, err
	}
	out, err := c.invoke(ctx, "Match", in)
	if err != nil {
		return nil, err
	}

	raw, err := out.TryGetFieldByName("bindings")
	if err != nil {
		return nil, err
	}
	list, _ := raw.([]interface{})
	result := make([]map[string]string, 0, len(list))
	for _, item := range list {
		bMsg, ok := item.(*dynamic.Message)
		if !ok {
			continue
		}
		valuesVal, err := bMsg.TryGetFieldByName("values")
		if err != nil {
			return nil, err
		}
		m := map[string]string{}
		if mv, ok := valuesVal.(map[interface{}]interface{}); ok {
			for k, v := range mv {
				m[fmt.Sprint(k)] = fmt.Sprint(v)
			}
		}
		result = append(result, m)
	}
	return result, nil
}

// Infer loads ruleTexts into the remote engine, runs it to a fixed
// point, and returns the resulting KB contents in canonical text form.
func (c *Client) Infer(ctx context.Context, ruleTexts []string) ([]string, error) {
	in, err := c.newRequest("Infer")
	if err != nil {
		return nil, err
	}
	rawRules := make([]interface{}, len(ruleTexts))
	for i, r := range ruleTexts {
		rawRules[i] = r
	}
	if err := in.TrySetFieldByName("rules", rawRules); err != nil {
		return nil, err
	}
	out, err := c.invoke(ctx, "Infer", in)
	if err != nil {
		return nil, err
	}
	return getStringList(out, "edges")
}
