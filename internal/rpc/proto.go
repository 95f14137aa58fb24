// Package rpc is the dynamic, codegen-free gRPC KB service (spec.md
// §6.8): an embedded .proto schema parsed at process start with
// github.com/jhump/protoreflect/desc/protoparse, served and consumed
// through github.com/jhump/protoreflect/dynamic.Message values with no
// generated .pb.go, following the teacher's grpcLoadProto/grpcRegister/
// grpcInvoke pattern in internal/evaluator/builtins_grpc.go.
package rpc

import (
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
)

const schemaFile = "sh.proto"

const schemaSource = `syntax = "proto3";

package sh.v1;

message InsertRequest {
  string text = 1;
}

message InsertReply {
  string id = 1;
}

message GetRequest {
  string id = 1;
}

message GetReply {
  bool found = 1;
  string text = 2;
}

message MatchRequest {
  string pattern = 1;
  string text = 2;
}

message Binding {
  map<string, string> values = 1;
}

message MatchReply {
  repeated Binding bindings = 1;
}

message InferRequest {
  repeated string rules = 1;
}

message InferReply {
  repeated string edges = 1;
}

service KnowledgeBase {
  rpc Insert(InsertRequest) returns (InsertReply);
  rpc Get(GetRequest) returns (GetReply);
  rpc Match(MatchRequest) returns (MatchReply);
  rpc Infer(InferRequest) returns (InferReply);
}
`

const serviceFullName = "sh.v1.KnowledgeBase"

// loadSchema parses the embedded schema with no filesystem access, the
// in-memory counterpart of the teacher's grpcLoadProto(path).
func loadSchema() (*desc.FileDescriptor, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{schemaFile: schemaSource}),
	}
	fds, err := parser.ParseFiles(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("rpc: parse embedded schema: %w", err)
	}
	return fds[0], nil
}

func findService(fd *desc.FileDescriptor) (*desc.ServiceDescriptor, error) {
	sd := fd.FindService(serviceFullName)
	if sd == nil {
		return nil, fmt.Errorf("rpc: service %s not found in schema", serviceFullName)
	}
	return sd, nil
}
