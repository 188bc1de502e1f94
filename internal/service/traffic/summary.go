package traffic

import (
	"fmt"
	"strings"

	"trafficflow/internal/model"
)

var levelEmoji = map[model.Level]string{
	model.LevelLow:    "🟢",
	model.LevelMedium: "🟡",
	model.LevelHigh:   "🔴",
}

var recommendations = map[model.Level]string{
	model.LevelLow:    "Short green signal recommended",
	model.LevelMedium: "Balanced signal timing needed",
	model.LevelHigh:   "Extended green signal required",
}

// Summary formats the human-readable text shown next to a snapshot.
func Summary(density float64, count int, level model.Level) string {
	emoji, ok := levelEmoji[level]
	if !ok {
		emoji = "⚪"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Traffic: %s\n\n", emoji, strings.ToUpper(level.String()))
	b.WriteString("📊 Analysis:\n")
	fmt.Fprintf(&b, "• Density: %d%%\n", int(density*100))
	fmt.Fprintf(&b, "• %s\n\n", vehicleText(count))
	b.WriteString("💡 Recommendation:\n")
	fmt.Fprintf(&b, "%s\n\n", recommendations[level])
	b.WriteString("🚦 Status: Live monitoring\n")
	return b.String()
}

func vehicleText(count int) string {
	switch {
	case count <= 0:
		return "No vehicles detected"
	case count <= 3:
		return fmt.Sprintf("%d vehicle(s) - Very light", count)
	case count <= 8:
		return fmt.Sprintf("%d vehicles - Smooth flow", count)
	case count <= 15:
		return fmt.Sprintf("%d vehicles - Moderate", count)
	default:
		return fmt.Sprintf("%d vehicles - Heavy", count)
	}
}
