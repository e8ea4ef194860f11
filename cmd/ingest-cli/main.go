// Command ingest-cli uploads documents to a running praxis-rag server and
// runs ad-hoc questions against it. It talks to the HTTP API, never to the
// database directly.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	client    = &http.Client{Timeout: 5 * time.Minute}
)

var rootCmd = &cobra.Command{
	Use:   "ingest-cli",
	Short: "Upload and query practice documents",
	Long: `ingest-cli manages documents on a praxis-rag server.

Example usage:
  ingest-cli upload --file hygieneplan.pdf --title "Hygieneplan" --category <uuid>
  ingest-cli list
  ingest-cli ask "Wo finde ich den Hygieneplan?"`,
	SilenceUsage: true,
}

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a document and schedule indexing",
	RunE:  runUpload,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents with their processing status",
	RunE:  runList,
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question against the indexed documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <document-id>",
	Short: "Delete a document, its file and its index entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:9020", "praxis-rag server URL")

	uploadCmd.Flags().String("file", "", "path to the document file")
	uploadCmd.Flags().String("title", "", "document title shown to staff")
	uploadCmd.Flags().String("category", "", "category id")
	uploadCmd.Flags().String("type", "", "file type (pdf, docx, xlsx, image); inferred from extension when empty")
	_ = uploadCmd.MarkFlagRequired("file")
	_ = uploadCmd.MarkFlagRequired("title")
	_ = uploadCmd.MarkFlagRequired("category")

	rootCmd.AddCommand(uploadCmd, listCmd, askCmd, deleteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func inferFileType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "pdf"
	case ".docx":
		return "docx"
	case ".xlsx":
		return "xlsx"
	case ".png", ".jpg", ".jpeg":
		return "image"
	default:
		return ""
	}
}

func runUpload(cmd *cobra.Command, args []string) error {
	filePath, _ := cmd.Flags().GetString("file")
	title, _ := cmd.Flags().GetString("title")
	category, _ := cmd.Flags().GetString("category")
	fileType, _ := cmd.Flags().GetString("type")

	if fileType == "" {
		fileType = inferFileType(filePath)
	}
	if fileType == "" {
		return fmt.Errorf("cannot infer file type from %s, pass --type", filePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	_ = writer.WriteField("title", title)
	_ = writer.WriteField("categoryId", category)
	_ = writer.WriteField("fileType", fileType)
	if err := writer.Close(); err != nil {
		return err
	}

	resp, err := client.Post(serverURL+"/v1/documents", writer.FormDataContentType(), &body)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("upload failed: %s", readError(resp))
	}

	var doc struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return err
	}
	fmt.Printf("Uploaded %s (status: %s)\n", doc.ID, doc.Status)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	resp, err := client.Get(serverURL + "/v1/documents")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("list failed: %s", readError(resp))
	}

	var out struct {
		Documents []struct {
			ID         string `json:"id"`
			Title      string `json:"title"`
			Status     string `json:"status"`
			FileType   string `json:"fileType"`
			ChunkCount int    `json:"chunkCount"`
		} `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}

	for _, d := range out.Documents {
		fmt.Printf("%s  %-10s %-6s chunks=%-4d %s\n", d.ID, d.Status, d.FileType, d.ChunkCount, d.Title)
	}
	fmt.Printf("Total: %d\n", len(out.Documents))
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	payload, _ := json.Marshal(map[string]string{"question": args[0]})
	resp, err := client.Post(serverURL+"/v1/chat", "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("chat failed: %s", readError(resp))
	}

	var out struct {
		Answer  string `json:"answer"`
		Intent  string `json:"intent"`
		Sources []struct {
			Title      string  `json:"title"`
			PageNumber *int    `json:"pageNumber"`
			Score      float64 `json:"score"`
		} `json:"sources"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}

	fmt.Println(out.Answer)
	if len(out.Sources) > 0 {
		fmt.Printf("\nQuellen (%s):\n", out.Intent)
		for _, s := range out.Sources {
			if s.PageNumber != nil {
				fmt.Printf("  - %s, Seite %d (%.2f)\n", s.Title, *s.PageNumber, s.Score)
			} else {
				fmt.Printf("  - %s (%.2f)\n", s.Title, s.Score)
			}
		}
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	req, err := http.NewRequest(http.MethodDelete, serverURL+"/v1/documents/"+args[0], nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("delete failed: %s", readError(resp))
	}
	fmt.Println("Deleted", args[0])
	return nil
}

func readError(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}
