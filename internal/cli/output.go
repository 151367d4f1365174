package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/thenoetrevino/kanrank/internal/cli/styles"
	"github.com/thenoetrevino/kanrank/internal/models"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool
}

// Success outputs successful operation result
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Quiet {
		// Extract ID if possible
		if idGetter, ok := data.(interface{ GetID() int }); ok {
			fmt.Printf("%d\n", idGetter.GetID())
			return nil
		}
	}

	if f.JSON {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"success": true,
			"data":    data,
		})
	}

	// Human-readable format
	return f.prettyPrint(data)
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		errData := map[string]interface{}{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"success": false,
			"error":   errData,
		})
	}

	// Human-readable error
	fmt.Fprintf(os.Stderr, "%s %s\n", styles.ErrorStyle.Render("ERROR"), message)
	if suggestion != "" {
		fmt.Fprintf(os.Stderr, "  Suggestion: %s\n", suggestion)
	}
	return nil
}

// prettyPrint formats data for human-readable output
func (f *OutputFormatter) prettyPrint(data interface{}) error {
	switch v := data.(type) {
	case *models.Placement:
		fmt.Println(styles.RenderPlacement(v))
	case *models.Issue:
		fmt.Printf("✓ Issue #%d '%s' created in column #%d at rank %s\n", v.ID, v.Title, v.ColumnID, v.Rank)
	case *models.Column:
		fmt.Printf("✓ Column #%d '%s' (%d issues)\n", v.ID, v.Name, v.IssueCount)
	default:
		fmt.Printf("%+v\n", data)
	}
	return nil
}
