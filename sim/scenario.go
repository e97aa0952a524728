package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ItemID is the item type used by scenario files and the CLI driver.
// Library callers with a closed item domain can instantiate the generic
// core with their own type instead.
type ItemID string

// ScenarioItem declares one storable item: its capacity bound and the
// amount present before the first update.
type ScenarioItem struct {
	Name     string `yaml:"name"`
	Capacity int64  `yaml:"capacity"`
	Stored   int64  `yaml:"stored"`
}

// ScenarioStack is an item/amount pair on either side of a recipe.
type ScenarioStack struct {
	Item   string `yaml:"item"`
	Amount int64  `yaml:"amount"`
}

// ScenarioRecipe declares a named recipe.
type ScenarioRecipe struct {
	Name        string          `yaml:"name"`
	Ingredients []ScenarioStack `yaml:"ingredients"`
	Results     []ScenarioStack `yaml:"results"`
	Duration    int64           `yaml:"duration"`
}

// ScenarioLine declares a production line by recipe name.
type ScenarioLine struct {
	Recipe         string `yaml:"recipe"`
	TotalProducers int64  `yaml:"total_producers"`
}

// Scenario is the full YAML scenario structure: the item catalog, the
// recipe catalog, the production lines, and how far to advance.
type Scenario struct {
	Items     []ScenarioItem   `yaml:"items"`
	Recipes   []ScenarioRecipe `yaml:"recipes"`
	Lines     []ScenarioLine   `yaml:"lines"`
	TimeDelta int64            `yaml:"time_delta"`
}

// LoadScenario reads and parses a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &scenario, nil
}

// Validate checks that the scenario is internally consistent: item names
// unique, capacities non-negative, initial amounts within capacity,
// recipe names unique and resolvable, amounts positive.
func (s *Scenario) Validate() error {
	items := make(map[string]ScenarioItem, len(s.Items))
	for _, item := range s.Items {
		if item.Name == "" {
			return fmt.Errorf("item with empty name")
		}
		if _, ok := items[item.Name]; ok {
			return fmt.Errorf("duplicate item %q", item.Name)
		}
		if item.Capacity < 0 {
			return fmt.Errorf("item %q: capacity %d must be non-negative", item.Name, item.Capacity)
		}
		if item.Stored < 0 || item.Stored > item.Capacity {
			return fmt.Errorf("item %q: stored %d outside [0, %d]", item.Name, item.Stored, item.Capacity)
		}
		items[item.Name] = item
	}

	recipes := make(map[string]bool, len(s.Recipes))
	for _, recipe := range s.Recipes {
		if recipe.Name == "" {
			return fmt.Errorf("recipe with empty name")
		}
		if recipes[recipe.Name] {
			return fmt.Errorf("duplicate recipe %q", recipe.Name)
		}
		recipes[recipe.Name] = true
		if len(recipe.Results) == 0 {
			return fmt.Errorf("recipe %q: needs at least one result", recipe.Name)
		}
		if recipe.Duration <= 0 {
			return fmt.Errorf("recipe %q: duration %d must be positive", recipe.Name, recipe.Duration)
		}
		for _, stack := range append(append([]ScenarioStack{}, recipe.Ingredients...), recipe.Results...) {
			if _, ok := items[stack.Item]; !ok {
				return fmt.Errorf("recipe %q: unknown item %q", recipe.Name, stack.Item)
			}
			if stack.Amount <= 0 {
				return fmt.Errorf("recipe %q: amount %d for item %q must be positive", recipe.Name, stack.Amount, stack.Item)
			}
		}
	}

	for i, line := range s.Lines {
		if !recipes[line.Recipe] {
			return fmt.Errorf("line %d: unknown recipe %q", i, line.Recipe)
		}
		if line.TotalProducers < 0 {
			return fmt.Errorf("line %d: total producers %d must be non-negative", i, line.TotalProducers)
		}
	}

	if s.TimeDelta < 0 {
		return fmt.Errorf("time delta %d must be non-negative", s.TimeDelta)
	}
	return nil
}

// Build materializes the scenario: the capacity mapping (which the
// caller retains as their resizing lever), a store seeded with the
// initial amounts, and the production lines in declaration order.
func (s *Scenario) Build() (map[ItemID]int64, *ItemStore[ItemID], []*ProductionLine[ItemID], error) {
	if err := s.Validate(); err != nil {
		return nil, nil, nil, err
	}

	capacities := make(map[ItemID]int64, len(s.Items))
	for _, item := range s.Items {
		capacities[ItemID(item.Name)] = item.Capacity
	}
	store, err := NewItemStore(capacities)
	if err != nil {
		return nil, nil, nil, err
	}
	for _, item := range s.Items {
		if item.Stored == 0 {
			continue
		}
		if _, err := store.Deposit(ItemID(item.Name), item.Stored); err != nil {
			return nil, nil, nil, fmt.Errorf("seeding item %q: %w", item.Name, err)
		}
	}

	recipes := make(map[string]*Recipe[ItemID], len(s.Recipes))
	for _, sr := range s.Recipes {
		recipe, err := NewRecipe(toStacks(sr.Ingredients), toStacks(sr.Results), sr.Duration)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("recipe %q: %w", sr.Name, err)
		}
		recipes[sr.Name] = recipe
	}

	lines := make([]*ProductionLine[ItemID], 0, len(s.Lines))
	for i, sl := range s.Lines {
		line, err := NewProductionLine(recipes[sl.Recipe], sl.TotalProducers)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("line %d: %w", i, err)
		}
		lines = append(lines, line)
	}
	return capacities, store, lines, nil
}

func toStacks(stacks []ScenarioStack) []ItemStack[ItemID] {
	out := make([]ItemStack[ItemID], 0, len(stacks))
	for _, s := range stacks {
		out = append(out, ItemStack[ItemID]{Item: ItemID(s.Item), Amount: s.Amount})
	}
	return out
}
