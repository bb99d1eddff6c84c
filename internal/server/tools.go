package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"pdftools/internal/inspect"
)

const passwordDescription = "Password for encrypted/password-protected PDF files (optional)"

// ReadPDFArgs are the arguments of read_pdf.
type ReadPDFArgs struct {
	FilePath string `json:"file_path"`
	MaxPages *int   `json:"max_pages,omitempty"`
	Password string `json:"password,omitempty"`
}

// ExtractTablesArgs are the arguments of extract_pdf_tables.
type ExtractTablesArgs struct {
	FilePath    string `json:"file_path"`
	PageNumbers []int  `json:"page_numbers,omitempty"`
	Password    string `json:"password,omitempty"`
}

// ExtractImagesArgs are the arguments of extract_pdf_images.
type ExtractImagesArgs struct {
	FilePath    string `json:"file_path"`
	PageNumbers []int  `json:"page_numbers,omitempty"`
	OCREnabled  bool   `json:"ocr_enabled,omitempty"`
	Password    string `json:"password,omitempty"`
}

// AnalyzeArgs are the arguments of analyze_pdf_structure.
type AnalyzeArgs struct {
	FilePath      string `json:"file_path"`
	IncludeText   *bool  `json:"include_text,omitempty"`
	IncludeImages *bool  `json:"include_images,omitempty"`
	IncludeTables *bool  `json:"include_tables,omitempty"`
	Password      string `json:"password,omitempty"`
}

func (s *Server) tools() []server.ServerTool {
	pageNumbers := func(description string) mcp.ToolOption {
		return mcp.WithArray("page_numbers",
			mcp.Description(description),
			mcp.Items(map[string]any{"type": "number", "minimum": 1}),
		)
	}

	return []server.ServerTool{
		{
			Tool: mcp.NewTool("read_pdf",
				mcp.WithDescription("Extract and read text content from a PDF file. Supports password-protected PDFs and automatic OCR for scanned documents."),
				mcp.WithString("file_path",
					mcp.Required(),
					mcp.Description("Path to the PDF file to read (can be absolute or relative path)"),
				),
				mcp.WithNumber("max_pages",
					mcp.Description("Maximum number of pages to extract (optional, defaults to 10 for performance)"),
					mcp.Min(1),
				),
				mcp.WithString("password", mcp.Description(passwordDescription)),
			),
			Handler: mcp.NewTypedToolHandler(s.readPDF),
		},
		{
			Tool: mcp.NewTool("extract_pdf_tables",
				mcp.WithDescription("Extract structured table data from a PDF file with enhanced detection algorithms. Works without external dependencies but can use pdfplumber if available."),
				mcp.WithString("file_path",
					mcp.Required(),
					mcp.Description("Path to the PDF file to extract tables from"),
				),
				pageNumbers("Specific page numbers to extract tables from (optional, defaults to all pages)"),
				mcp.WithString("password", mcp.Description(passwordDescription)),
			),
			Handler: mcp.NewTypedToolHandler(s.extractTables),
		},
		{
			Tool: mcp.NewTool("extract_pdf_images",
				mcp.WithDescription("Extract images from PDF and optionally perform OCR to get text content from images. Automatically handles scanned PDFs."),
				mcp.WithString("file_path",
					mcp.Required(),
					mcp.Description("Path to the PDF file to extract images from"),
				),
				pageNumbers("Specific page numbers to extract images from (optional, defaults to all pages)"),
				mcp.WithBoolean("ocr_enabled",
					mcp.Description("Whether to perform OCR on extracted images to get text content"),
					mcp.DefaultBool(false),
				),
				mcp.WithString("password", mcp.Description(passwordDescription)),
			),
			Handler: mcp.NewTypedToolHandler(s.extractImages),
		},
		{
			Tool: mcp.NewTool("analyze_pdf_structure",
				mcp.WithDescription("Analyze the overall structure and metadata of a PDF file including page count, text content, images, and tables. Provides comprehensive document overview."),
				mcp.WithString("file_path",
					mcp.Required(),
					mcp.Description("Path to the PDF file to analyze"),
				),
				mcp.WithBoolean("include_text",
					mcp.Description("Whether to include text content in the analysis"),
					mcp.DefaultBool(true),
				),
				mcp.WithBoolean("include_images",
					mcp.Description("Whether to include image analysis"),
					mcp.DefaultBool(true),
				),
				mcp.WithBoolean("include_tables",
					mcp.Description("Whether to include table detection"),
					mcp.DefaultBool(true),
				),
				mcp.WithString("password", mcp.Description(passwordDescription)),
			),
			Handler: mcp.NewTypedToolHandler(s.analyze),
		},
	}
}

func (s *Server) readPDF(ctx context.Context, request mcp.CallToolRequest, args ReadPDFArgs) (*mcp.CallToolResult, error) {
	return s.run(ctx, "read_pdf", func(ctx context.Context) (string, error) {
		if err := requirePath(args.FilePath); err != nil {
			return "", err
		}
		maxPages := 0
		if args.MaxPages != nil {
			if *args.MaxPages < 1 {
				return "", fmt.Errorf("%w: max_pages must be at least 1", ErrInvalidArguments)
			}
			maxPages = *args.MaxPages
		}
		return s.ops.ReadText(ctx, inspect.ReadRequest{
			Path:     args.FilePath,
			MaxPages: maxPages,
			Password: args.Password,
		})
	})
}

func (s *Server) extractTables(ctx context.Context, request mcp.CallToolRequest, args ExtractTablesArgs) (*mcp.CallToolResult, error) {
	return s.run(ctx, "extract_pdf_tables", func(ctx context.Context) (string, error) {
		if err := requirePath(args.FilePath); err != nil {
			return "", err
		}
		if err := validatePages(args.PageNumbers); err != nil {
			return "", err
		}
		return s.ops.ExtractTables(ctx, inspect.TablesRequest{
			Path:     args.FilePath,
			Pages:    args.PageNumbers,
			Password: args.Password,
		})
	})
}

func (s *Server) extractImages(ctx context.Context, request mcp.CallToolRequest, args ExtractImagesArgs) (*mcp.CallToolResult, error) {
	return s.run(ctx, "extract_pdf_images", func(ctx context.Context) (string, error) {
		if err := requirePath(args.FilePath); err != nil {
			return "", err
		}
		if err := validatePages(args.PageNumbers); err != nil {
			return "", err
		}
		return s.ops.ExtractImages(ctx, inspect.ImagesRequest{
			Path:     args.FilePath,
			Pages:    args.PageNumbers,
			OCR:      args.OCREnabled,
			Password: args.Password,
		})
	})
}

func (s *Server) analyze(ctx context.Context, request mcp.CallToolRequest, args AnalyzeArgs) (*mcp.CallToolResult, error) {
	return s.run(ctx, "analyze_pdf_structure", func(ctx context.Context) (string, error) {
		if err := requirePath(args.FilePath); err != nil {
			return "", err
		}
		return s.ops.Analyze(ctx, inspect.AnalyzeRequest{
			Path:          args.FilePath,
			IncludeText:   boolOr(args.IncludeText, true),
			IncludeImages: boolOr(args.IncludeImages, true),
			IncludeTables: boolOr(args.IncludeTables, true),
			Password:      args.Password,
		})
	})
}

func requirePath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: file_path is required", ErrInvalidArguments)
	}
	return nil
}

func validatePages(pages []int) error {
	for _, p := range pages {
		if p < 1 {
			return fmt.Errorf("%w: page numbers must be at least 1, got %d", ErrInvalidArguments, p)
		}
	}
	return nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
