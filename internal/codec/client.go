package codec

import (
	"context"
	"fmt"

	"github.com/danielpatrickdp/persona-harness/internal/dialogue"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// Full method names of the persona inference service. Requests and replies
// are google.protobuf.Struct so no generated stubs are needed.
const (
	GenerateMethod = "/persona.Generator/Generate"
	SearchMethod   = "/persona.Generator/Search"
)

// #region client-struct
// GRPCGenerator wraps the gRPC connection to a remote inference service that
// generates replies and searches the quote memory.
type GRPCGenerator struct {
	conn *grpc.ClientConn
	cc   grpc.ClientConnInterface
}
// #endregion client-struct

// #region constructor
// NewGRPCGenerator connects to the inference gRPC server.
func NewGRPCGenerator(addr string) (*GRPCGenerator, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &GRPCGenerator{conn: conn, cc: conn}, nil
}

// NewGRPCGeneratorWithConn creates a GRPCGenerator over an existing connection.
// Used for testing without a real server.
func NewGRPCGeneratorWithConn(cc grpc.ClientConnInterface) *GRPCGenerator {
	return &GRPCGenerator{cc: cc}
}
// #endregion constructor

// #region close
// Close shuts down the gRPC connection if this client owns it.
func (c *GRPCGenerator) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
// #endregion close

// #region generate
// Generate sends the system prompt and conversation to the inference service.
func (c *GRPCGenerator) Generate(ctx context.Context, system string, history []dialogue.Message) (string, error) {
	msgs := make([]interface{}, len(history))
	for i, m := range history {
		msgs[i] = map[string]interface{}{
			"role":    string(m.Role),
			"content": m.Content,
		}
	}
	req, err := structpb.NewStruct(map[string]interface{}{
		"system":   system,
		"messages": msgs,
	})
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}

	resp := &structpb.Struct{}
	if err := c.cc.Invoke(ctx, GenerateMethod, req, resp); err != nil {
		return "", fmt.Errorf("generate rpc: %w", err)
	}

	text := resp.GetFields()["text"].GetStringValue()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
// #endregion generate

// #region search
// Search queries the quote memory via the inference service.
func (c *GRPCGenerator) Search(ctx context.Context, queryText string, topK int, similarityThreshold float32) ([]SearchResult, error) {
	req, err := structpb.NewStruct(map[string]interface{}{
		"query_text":           queryText,
		"top_k":                float64(topK),
		"similarity_threshold": float64(similarityThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	resp := &structpb.Struct{}
	if err := c.cc.Invoke(ctx, SearchMethod, req, resp); err != nil {
		return nil, fmt.Errorf("search rpc: %w", err)
	}

	items := resp.GetFields()["results"].GetListValue().GetValues()
	results := make([]SearchResult, 0, len(items))
	for _, v := range items {
		f := v.GetStructValue().GetFields()
		results = append(results, SearchResult{
			ID:           f["id"].GetStringValue(),
			Text:         f["text"].GetStringValue(),
			Score:        float32(f["score"].GetNumberValue()),
			MetadataJSON: f["metadata_json"].GetStringValue(),
		})
	}
	return results, nil
}
// #endregion search
