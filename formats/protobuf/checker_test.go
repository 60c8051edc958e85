package protobuf_test

import (
	"context"
	"testing"

	"github.com/schemarepo-lab/go-schema-repo/formats/protobuf"
	"github.com/stretchr/testify/require"
)

func TestChecker_Check(t *testing.T) {
	checker := protobuf.NewChecker()
	ctx := context.Background()

	tests := []struct {
		name    string
		schema  string
		wantErr string
	}{
		{
			name:   "single message",
			schema: `syntax = "proto3"; message Greeting { string message = 1; int64 count = 2; }`,
		},
		{
			name: "standard import",
			schema: `syntax = "proto3";
import "google/protobuf/timestamp.proto";
message Audit { google.protobuf.Timestamp at = 1; }`,
		},
		{
			name:    "syntax error",
			schema:  `message Greeting {`,
			wantErr: "invalid protobuf schema",
		},
		{
			name:    "unknown field type",
			schema:  `syntax = "proto3"; message Greeting { Missing m = 1; }`,
			wantErr: "invalid protobuf schema",
		},
		{
			name:    "no messages",
			schema:  `syntax = "proto3"; enum Level { LEVEL_UNSPECIFIED = 0; }`,
			wantErr: "must define at least one message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checker.Check(ctx, tt.schema)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
