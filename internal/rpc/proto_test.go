package rpc

import "testing"

func TestLoadSchemaFindsAllMethods(t *testing.T) {
	fd, err := loadSchema()
	if err != nil {
		t.Fatalf("loadSchema: %v", err)
	}
	sd, err := findService(fd)
	if err != nil {
		t.Fatalf("findService: %v", err)
	}
	want := []string{"Insert", "Get", "Match", "Infer"}
	for _, name := range want {
		if sd.FindMethodByName(name) == nil {
			t.Fatalf("expected method %s in parsed schema", name)
		}
	}
}

func TestDialDoesNotRequireAnImmediateConnection(t *testing.T) {
	// grpc.NewClient is lazy: it resolves the target and loads the
	// schema without blocking on a live server, mirroring the teacher's
	// grpcConnect (which also never dials eagerly).
	c, err := Dial("127.0.0.1:0")
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()
	if c.sd.FindMethodByName("Insert") == nil {
		t.Fatalf("expected the client's resolved schema to contain Insert")
	}
}
