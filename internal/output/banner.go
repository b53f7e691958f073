package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
)

func divider() string {
	return dividerStyle.Render(strings.Repeat("=", 60))
}

// PrintRunHeader prints the run banner before querying starts.
func PrintRunHeader(testCount int, modelNames []string) {
	fmt.Println(divider())
	fmt.Println(titleStyle.Render("Norwegian LLM Evaluation"))
	fmt.Println(divider())
	fmt.Printf("Tests: %d\n", testCount)
	fmt.Printf("Models: %s\n", strings.Join(modelNames, ", "))
	fmt.Printf("Total queries: %d\n", testCount*len(modelNames))
	fmt.Println(divider())
	fmt.Println()
}

// PrintRunSummary prints the artifact locations once the run is done.
func PrintRunSummary(snapshotPath, tablePath string, testCount, modelCount int) {
	fmt.Println()
	fmt.Println(divider())
	fmt.Println(okStyle.Render(fmt.Sprintf("✓ Results saved to %s", snapshotPath)))
	fmt.Println(okStyle.Render(fmt.Sprintf("✓ Table saved to %s (tab-separated)", tablePath)))
	fmt.Printf("  Tested %d questions × %d models = %d responses\n", testCount, modelCount, testCount*modelCount)
	fmt.Println(divider())
}
