package extraction_test

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/cucumber/godog"

	"github.com/AntoC-dev/recipelens/internal/extract"
	"github.com/AntoC-dev/recipelens/internal/recognizer"
	"github.com/AntoC-dev/recipelens/internal/terms"
)

// seededEngine returns a pre-seeded document instead of recognizing an image.
type seededEngine struct {
	doc *recognizer.Document
}

func (e *seededEngine) Recognize(_ context.Context, _ []byte) (*recognizer.Document, error) {
	return e.doc, nil
}

// extractionWorld holds the state of one scenario.
type extractionWorld struct {
	engine   *seededEngine
	patch    extract.Patch
	warnings []string
}

func (w *extractionWorld) theRecognizerReturnsTheLines(doc *godog.DocString) error {
	w.engine.doc = recognizer.FromLines(strings.Split(doc.Content, "\n")...)
	return nil
}

func (w *extractionWorld) theRecognizerReturnsTheBlocks(doc *godog.DocString) error {
	w.engine.doc = recognizer.FromBlocks(strings.Split(doc.Content, "\n")...)
	return nil
}

func (w *extractionWorld) theRecognizerReturnsNoText() error {
	w.engine.doc = &recognizer.Document{}
	return nil
}

func (w *extractionWorld) iExtractTheField(fieldName, servings string) error {
	field := extract.FieldKind(fieldName)
	if !extract.ValidField(field) {
		return fmt.Errorf("unknown field %q", fieldName)
	}

	st := extract.State{}
	if servings != "" {
		n, err := strconv.Atoi(servings)
		if err != nil {
			return err
		}
		st.Servings = n
	}

	store, err := terms.NewStore()
	if err != nil {
		return fmt.Errorf("loading term catalogs: %w", err)
	}
	extractor := extract.NewExtractor(w.engine, store, extract.WithLanguage("en"))
	w.patch, w.warnings = extractor.Extract(context.Background(), nil, field, "", st)
	return nil
}

func (w *extractionWorld) thereAreNoWarnings() error {
	if len(w.warnings) != 0 {
		return fmt.Errorf("expected no warnings, got %v", w.warnings)
	}
	return nil
}

func (w *extractionWorld) ingredientHasQuantityForServings(name, quantity string, servings int) error {
	for _, rec := range w.patch.Table {
		if rec.Name != name {
			continue
		}
		for _, sq := range rec.QuantityPerServings {
			if sq.Servings == servings {
				if sq.Quantity != quantity {
					return fmt.Errorf("ingredient %q for %dp: expected quantity %q, got %q",
						name, servings, quantity, sq.Quantity)
				}
				return nil
			}
		}
		return fmt.Errorf("ingredient %q has no column for %d servings", name, servings)
	}
	return fmt.Errorf("ingredient %q not found in table", name)
}

func (w *extractionWorld) theRecipeIngredientHasQuantity(name, quantity string) error {
	for _, ing := range w.patch.Ingredients {
		if ing.Name == name {
			if ing.Quantity != quantity {
				return fmt.Errorf("ingredient %q: expected quantity %q, got %q",
					name, quantity, ing.Quantity)
			}
			return nil
		}
	}
	return fmt.Errorf("ingredient %q not found", name)
}

func (w *extractionWorld) preparationStepIsTitled(order int, title, description string) error {
	if order < 1 || order > len(w.patch.Preparation) {
		return fmt.Errorf("step %d out of range, have %d steps", order, len(w.patch.Preparation))
	}
	step := w.patch.Preparation[order-1]
	if step.Title != title {
		return fmt.Errorf("step %d: expected title %q, got %q", order, title, step.Title)
	}
	if description != "" && step.Description != description {
		return fmt.Errorf("step %d: expected description %q, got %q", order, description, step.Description)
	}
	return nil
}

func (w *extractionWorld) nutritionValueIs(key string, value int) error {
	got, ok := w.patch.Nutrition[extract.NutritionKey(key)]
	if !ok {
		return fmt.Errorf("nutrition key %q not present in %v", key, w.patch.Nutrition)
	}
	if got != float64(value) {
		return fmt.Errorf("nutrition %q: expected %d, got %v", key, value, got)
	}
	return nil
}

func (w *extractionWorld) theExtractedPersonsCountIs(count int) error {
	if w.patch.Persons == nil {
		return fmt.Errorf("no persons count extracted")
	}
	if *w.patch.Persons != count {
		return fmt.Errorf("expected %d persons, got %d", count, *w.patch.Persons)
	}
	return nil
}

func (w *extractionWorld) theExtractedTimeIsMinutes(minutes int) error {
	if w.patch.TimeMinutes == nil {
		return fmt.Errorf("no time extracted")
	}
	if *w.patch.TimeMinutes != minutes {
		return fmt.Errorf("expected %d minutes, got %d", minutes, *w.patch.TimeMinutes)
	}
	return nil
}

func (w *extractionWorld) thePatchIsEmpty() error {
	if !reflect.DeepEqual(w.patch, extract.Patch{}) {
		return fmt.Errorf("expected empty patch, got %+v", w.patch)
	}
	return nil
}

// InitializeScenario registers the extraction step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	w := &extractionWorld{engine: &seededEngine{}}

	ctx.Before(func(c context.Context, _ *godog.Scenario) (context.Context, error) {
		*w = extractionWorld{engine: &seededEngine{}}
		return c, nil
	})

	ctx.Step(`^the recognizer returns the lines:$`, w.theRecognizerReturnsTheLines)
	ctx.Step(`^the recognizer returns the blocks:$`, w.theRecognizerReturnsTheBlocks)
	ctx.Step(`^the recognizer returns no text$`, w.theRecognizerReturnsNoText)
	ctx.Step(`^I extract the "([^"]*)" field(?: for (\d+) servings)?$`, w.iExtractTheField)
	ctx.Step(`^there are no warnings$`, w.thereAreNoWarnings)
	ctx.Step(`^ingredient "([^"]*)" has quantity "([^"]*)" for (\d+) servings$`, w.ingredientHasQuantityForServings)
	ctx.Step(`^the recipe ingredient "([^"]*)" has quantity "([^"]*)"$`, w.theRecipeIngredientHasQuantity)
	ctx.Step(`^preparation step (\d+) is titled "([^"]*)"(?: with description "([^"]*)")?$`, w.preparationStepIsTitled)
	ctx.Step(`^nutrition value "([^"]*)" is (\d+)$`, w.nutritionValueIs)
	ctx.Step(`^the extracted persons count is (\d+)$`, w.theExtractedPersonsCountIs)
	ctx.Step(`^the extracted time is (\d+) minutes$`, w.theExtractedTimeIsMinutes)
	ctx.Step(`^the patch is empty$`, w.thePatchIsEmpty)
}
