package validate

import "testing"

func TestSchemaApply(t *testing.T) {
	schema := Schema{
		Required("username"),
		Required("password"),
	}

	tests := []struct {
		name    string
		payload map[string]any
		wantErr string
	}{
		{
			name:    "missing first field",
			payload: map[string]any{},
			wantErr: "Missing field: username",
		},
		{
			name:    "non-string field",
			payload: map[string]any{"username": float64(42)},
			wantErr: "Incorrect field type: username",
		},
		{
			name:    "empty after trim",
			payload: map[string]any{"username": "   "},
			wantErr: "Incorrect field length: username",
		},
		{
			name:    "second field checked after first passes",
			payload: map[string]any{"username": "joe"},
			wantErr: "Missing field: password",
		},
		{
			name:    "valid payload",
			payload: map[string]any{"username": "joe", "password": "12345"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := schema.Apply(tt.payload)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Apply failed: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error %q, got values %v", tt.wantErr, values)
			}
			if err.Message != tt.wantErr {
				t.Errorf("message: expected %q, got %q", tt.wantErr, err.Message)
			}
		})
	}

	t.Run("fail-fast stops at first failing field", func(t *testing.T) {
		// Both fields are invalid; only the first is reported.
		_, err := schema.Apply(map[string]any{"username": float64(1), "password": float64(2)})
		if err == nil {
			t.Fatal("Expected error")
		}
		if err.Field != "username" {
			t.Errorf("field: expected username, got %s", err.Field)
		}
	})

	t.Run("values are trimmed", func(t *testing.T) {
		values, err := schema.Apply(map[string]any{"username": "  joe\n", "password": " 12345 "})
		if err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		if values["username"] != "joe" {
			t.Errorf("username: expected joe, got %q", values["username"])
		}
		if values["password"] != "12345" {
			t.Errorf("password: expected 12345, got %q", values["password"])
		}
	})

	t.Run("type-only field reports absence as type error", func(t *testing.T) {
		s := Schema{TypeChecked("to")}
		_, err := s.Apply(map[string]any{})
		if err == nil {
			t.Fatal("Expected error")
		}
		if err.Message != "Incorrect field type: to" {
			t.Errorf("message: expected %q, got %q", "Incorrect field type: to", err.Message)
		}
	})

	t.Run("payload is not mutated by trimming", func(t *testing.T) {
		payload := map[string]any{"username": " joe ", "password": "12345"}
		if _, err := schema.Apply(payload); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
		if payload["username"] != " joe " {
			t.Errorf("payload mutated: got %q", payload["username"])
		}
	})
}
