package report

// Chart is the shape the dashboard script feeds to the charting library.
type Chart struct {
	Labels  []string  `json:"labels"`
	Income  []float64 `json:"income,omitempty"`
	Expense []float64 `json:"expense"`
}

func TrendChart(months []MonthTotal) Chart {
	c := Chart{
		Labels:  make([]string, 0, len(months)),
		Income:  make([]float64, 0, len(months)),
		Expense: make([]float64, 0, len(months)),
	}
	for _, m := range months {
		c.Labels = append(c.Labels, m.Month.String()[:3])
		c.Income = append(c.Income, m.Income.InexactFloat64())
		c.Expense = append(c.Expense, m.Expense.InexactFloat64())
	}
	return c
}

func CategoryChart(cats []CategoryTotal) Chart {
	c := Chart{
		Labels:  make([]string, 0, len(cats)),
		Expense: make([]float64, 0, len(cats)),
	}
	for _, ct := range cats {
		c.Labels = append(c.Labels, ct.Name)
		c.Expense = append(c.Expense, ct.Total.InexactFloat64())
	}
	return c
}
