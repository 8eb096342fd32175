package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bull/invoice-rag/internal/chat"
	"github.com/bull/invoice-rag/internal/ingest"
	"github.com/bull/invoice-rag/internal/storage"
)

// makeAskHandler creates the ask_invoices tool handler. MCP tool calls have
// no fragment stream, so the orchestrator's output is collected into one
// answer; cache, retrieval and fallback semantics are identical to the SSE
// path.
func makeAskHandler(orchestrator *chat.Orchestrator) func(
	context.Context, *mcp.CallToolRequest, AskInvoicesInput,
) (*mcp.CallToolResult, AskInvoicesOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AskInvoicesInput) (
		*mcp.CallToolResult, AskInvoicesOutput, error,
	) {
		answer, err := orchestrator.AnswerText(ctx, input.Question)
		if err != nil {
			return nil, AskInvoicesOutput{}, fmt.Errorf("failed to answer question: %w", err)
		}
		return nil, AskInvoicesOutput{Answer: answer}, nil
	}
}

// makeIngestHandler creates the ingest_file tool handler.
func makeIngestHandler(pipeline *ingest.Pipeline) func(
	context.Context, *mcp.CallToolRequest, IngestFileInput,
) (*mcp.CallToolResult, IngestFileOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input IngestFileInput) (
		*mcp.CallToolResult, IngestFileOutput, error,
	) {
		result, err := pipeline.IngestFile(ctx, input.Path)
		if err != nil {
			return nil, IngestFileOutput{}, fmt.Errorf("failed to ingest file: %w", err)
		}
		return nil, IngestFileOutput{
			Filename:   result.Filename,
			Message:    result.Message,
			PointCount: len(result.Points),
		}, nil
	}
}

// makeStatusHandler creates the index_status tool handler.
func makeStatusHandler(store *storage.QdrantStorage, collection string) func(
	context.Context, *mcp.CallToolRequest, IndexStatusInput,
) (*mcp.CallToolResult, IndexStatusOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input IndexStatusInput) (
		*mcp.CallToolResult, IndexStatusOutput, error,
	) {
		info, err := store.GetCollectionInfo(ctx)
		if err != nil {
			return nil, IndexStatusOutput{}, fmt.Errorf("qdrant_error: failed to get collection info: %w", err)
		}
		return nil, IndexStatusOutput{
			Collection:  collection,
			TotalPoints: info.PointsCount,
			Dimension:   store.Dimension(),
		}, nil
	}
}
