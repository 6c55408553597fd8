package recipe

import (
	"errors"
	"testing"

	"github.com/poppolopoppo/llvmboot/internal/base"
)

func TestValidate(t *testing.T) {
	sanitized := func(o *Options) {
		o.Sanitizer = SANITIZER_ADDRESS
		o.IncludeWhatYouUse = base.INHERITABLE_FALSE
	}

	for _, it := range []struct {
		Name     string
		Options  func(*Options)
		Settings func(*Settings)
		Error    string
	}{
		{Name: "default"},
		{Name: "gcc 5.1", Settings: func(s *Settings) {
			s.Compiler.Name, s.Compiler.Version = "gcc", "5.1"
		}},
		{Name: "gnu17", Settings: func(s *Settings) { s.Compiler.Cppstd = "gnu17" }},
		{Name: "cppstd inherited", Settings: func(s *Settings) { s.Compiler.Cppstd = "" }},
		{Name: "address sanitizer", Options: sanitized},
		{Name: "exceptions without rtti",
			Options: func(o *Options) { o.Exceptions = base.INHERITABLE_TRUE },
			Error:   "Cannot enable exceptions without rtti support"},
		{Name: "exceptions with rtti",
			Options: func(o *Options) {
				o.Exceptions = base.INHERITABLE_TRUE
				o.Rtti = base.INHERITABLE_TRUE
			}},
		{Name: "gcc 4.9",
			Settings: func(s *Settings) { s.Compiler.Name, s.Compiler.Version = "gcc", "4.9" },
			Error:    `unsupported compiler: "gcc", version "4.9"`},
		{Name: "gcc 5.0",
			Settings: func(s *Settings) { s.Compiler.Name, s.Compiler.Version = "gcc", "5.0" },
			Error:    "unsupported compiler"},
		{Name: "clang 3.9",
			Settings: func(s *Settings) { s.Compiler.Version = "3.9" },
			Error:    "unsupported compiler"},
		{Name: "apple-clang 8",
			Settings: func(s *Settings) { s.Compiler.Name, s.Compiler.Version = "apple-clang", "8.1" },
			Error:    "unsupported compiler"},
		{Name: "debug",
			Settings: func(s *Settings) { s.BuildType = "Debug" },
			Error:    "compatible only with Release builds"},
		{Name: "sanitizer without compiler-rt",
			Options: func(o *Options) {
				sanitized(o)
				o.Projects.Remove(LLVMPROJECT_COMPILER_RT)
			},
			Error: "sanitizers require compiler-rt"},
		{Name: "static msan",
			Options: func(o *Options) {
				sanitized(o)
				o.Sanitizer = SANITIZER_MEMORY_WITH_ORIGINS
				o.Shared = base.INHERITABLE_FALSE
			},
			Error: "Static linking is not supported with MemorySanitizer."},
		{Name: "static memory",
			Options: func(o *Options) {
				sanitized(o)
				o.Sanitizer = SANITIZER_MEMORY
				o.Shared = base.INHERITABLE_FALSE
			},
			Error: "Static linking is not supported with MemorySanitizer."},
		{Name: "shared memory",
			Options: func(o *Options) {
				sanitized(o)
				o.Sanitizer = SANITIZER_MEMORY
				o.Shared = base.INHERITABLE_TRUE
			}},
		{Name: "shared memory with origins",
			Options: func(o *Options) {
				sanitized(o)
				o.Sanitizer = SANITIZER_MEMORY_WITH_ORIGINS
				o.Shared = base.INHERITABLE_TRUE
			}},
		{Name: "sanitizer without libcxx",
			Options: func(o *Options) {
				sanitized(o)
				o.Projects.Remove(LLVMPROJECT_LIBCXX)
			},
			Error: "Sanitizer requires libcxx project."},
		{Name: "cppstd 11",
			Settings: func(s *Settings) { s.Compiler.Cppstd = "11" },
			Error:    "Current cppstd (11) is lower than the required C++ standard (14)."},
		{Name: "cppstd 98",
			Settings: func(s *Settings) { s.Compiler.Cppstd = "gnu98" },
			Error:    "lower than the required C++ standard"},
		{Name: "cppstd garbage",
			Settings: func(s *Settings) { s.Compiler.Cppstd = "latest" },
			Error:    "unknown cppstd"},
		{Name: "old msvc",
			Settings: func(s *Settings) {
				s.OsBuild = "Windows"
				s.Compiler = CompilerSettings{Name: "Visual Studio", Version: "16"}
			},
			Error: "Need MSVC >= 19.1"},
		{Name: "sanitized gcc",
			Options:  sanitized,
			Settings: func(s *Settings) { s.Compiler.Name, s.Compiler.Version = "gcc", "9" },
			Error:    "Sanitized package is only compatible with clang"},
		{Name: "sanitized iwyu",
			Options: func(o *Options) {
				sanitized(o)
				o.IncludeWhatYouUse = base.INHERITABLE_TRUE
			},
			Error: "disable include_what_you_use when sanitizers enabled"},
	} {
		t.Run(it.Name, func(t *testing.T) {
			options, settings := DefaultOptions(), testSettings()
			if it.Options != nil {
				it.Options(&options)
			}
			if it.Settings != nil {
				it.Settings(&settings)
			}

			err := Validate(options, settings)
			if len(it.Error) == 0 {
				if err != nil {
					t.Fatalf("Validate: unexpected error %v", err)
				}
				return
			}

			expectError(t, err, it.Error)
			var invalid InvalidConfigurationError
			if !errors.As(err, &invalid) {
				t.Errorf("Validate: expected an InvalidConfigurationError, got %T", err)
			}
		})
	}
}

func TestValidate_MemorySanitizerPrecedesLibcxx(t *testing.T) {
	options := DefaultOptions()
	options.Sanitizer = SANITIZER_MEMORY
	options.Shared = base.INHERITABLE_FALSE
	options.IncludeWhatYouUse = base.INHERITABLE_FALSE
	options.Projects.Remove(LLVMPROJECT_LIBCXX)

	expectError(t, Validate(options, testSettings()), "Static linking is not supported with MemorySanitizer.")
}
