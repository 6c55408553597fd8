package base

import (
	"strings"
	"testing"
)

func TestConsoleLogger(t *testing.T) {
	var output strings.Builder
	logger := NewLogger()
	logger.SetWriter(&output)
	logger.SetLevel(LOG_WARNING)

	category := NewLogCategory("LogTest")
	logger.Log(category, LOG_INFO, "hidden %d", 1)
	if output.Len() != 0 {
		t.Errorf("Logger.Log: info should be filtered at warning level, got %q", output.String())
	}

	logger.Log(category, LOG_ERROR, "stage %s failed", "stage_llvm")
	if !strings.Contains(output.String(), "LogTest") || !strings.Contains(output.String(), "stage stage_llvm failed") {
		t.Errorf("Logger.Log: unexpected output %q", output.String())
	}

	output.Reset()
	logger.Forwardln("-- Configuring done")
	logger.Forwardln("-- Generating done\n")
	if expected := "-- Configuring done\n-- Generating done\n"; output.String() != expected {
		t.Errorf("Logger.Forwardln: expected %q, got %q", expected, output.String())
	}
}

func TestLogManager_SetCategoryLevel(t *testing.T) {
	category := NewLogCategory("LogTestVerbose")
	if NewLogCategory("LogTestVerbose") != category {
		t.Errorf("NewLogCategory: categories should be unique by name")
	}

	if err := GetLogManager().SetCategoryLevel("LogTestVerbose", LOG_ALL); err != nil {
		t.Fatal(err)
	}
	if !category.Level.IsVisible(LOG_DEBUG) {
		t.Errorf("SetCategoryLevel: debug messages should be visible")
	}
	if err := GetLogManager().SetCategoryLevel("NoSuchCategory", LOG_ALL); err == nil {
		t.Errorf("SetCategoryLevel: expected an error for an unknown category")
	}
}
