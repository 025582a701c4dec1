package internal

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	tt "github.com/gnolang/luthor/internal/types"
	"github.com/gnolang/luthor/lexer"
)

const (
	tabWidth = 8
)

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	ruleStyle    = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	kindStyle    = color.New(color.FgGreen)
)

// FormatTokens renders one line per token:
//
//	Line 3, col 7: INTEGER '1'
func FormatTokens(result tt.Result) string {
	var builder strings.Builder
	for _, tok := range result.Tokens {
		builder.WriteString(lineStyle.Sprintf("Line %d, col %d", tok.Start.Line, tok.Start.Column))
		builder.WriteString(": ")
		builder.WriteString(kindStyle.Sprint(tok.Kind))
		builder.WriteString(" '" + lexer.Escape(tok.Lexeme) + "'\n")
	}
	return builder.String()
}

// FormatIssuesWithArrows renders each issue with the offending source line
// and a caret under its column.
func FormatIssuesWithArrows(issues []tt.Issue, sourceCode *SourceCode) string {
	var builder strings.Builder
	for _, issue := range issues {
		builder.WriteString(formatIssueHeader(issue))
		builder.WriteString(formatGeneralIssue(issue, sourceCode))
	}
	return builder.String()
}

func formatIssueHeader(issue tt.Issue) string {
	location := fmt.Sprintf("%s:%d:%d", issue.Filename, issue.Start.Line, issue.Start.Column)
	if issue.Filename == "" {
		location = fmt.Sprintf("%d:%d", issue.Start.Line, issue.Start.Column)
	}
	return errorStyle.Sprint("error: ") + ruleStyle.Sprint(issue.Rule) + "\n" +
		lineStyle.Sprint(" --> ") + fileStyle.Sprint(location) + "\n"
}

func formatGeneralIssue(issue tt.Issue, sourceCode *SourceCode) string {
	var result strings.Builder

	lineNumberStr := fmt.Sprintf("%d", issue.Start.Line)
	padding := strings.Repeat(" ", len(lineNumberStr)-1)
	result.WriteString(lineStyle.Sprintf("  %s|\n", padding))

	raw := ""
	if sourceCode != nil && issue.Start.Line >= 1 && issue.Start.Line <= len(sourceCode.Lines) {
		raw = strings.TrimRight(sourceCode.Lines[issue.Start.Line-1], "\r")
	}
	result.WriteString(lineStyle.Sprintf("%d | ", issue.Start.Line))
	result.WriteString(expandTabs(raw) + "\n")

	visualColumn := calculateVisualColumn(raw, issue.Start.Column)
	result.WriteString(lineStyle.Sprintf("  %s| ", padding))
	result.WriteString(strings.Repeat(" ", visualColumn))
	result.WriteString(messageStyle.Sprintf("^ %s\n\n", issue.Message))

	return result.String()
}

func expandTabs(line string) string {
	var expanded strings.Builder
	column := 0
	for _, ch := range line {
		if ch == '\t' {
			spaceCount := tabWidth - (column % tabWidth)
			expanded.WriteString(strings.Repeat(" ", spaceCount))
			column += spaceCount
		} else {
			expanded.WriteRune(ch)
			column++
		}
	}
	return expanded.String()
}

// calculateVisualColumn converts a 1-based byte column into the number of
// cells preceding it once tabs are expanded.
func calculateVisualColumn(line string, column int) int {
	visualColumn := 0
	for i, ch := range line {
		if i+1 >= column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
	}
	return visualColumn
}
