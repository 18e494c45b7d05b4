package languages

import "testing"

func TestExtractEnvVarFromJava(t *testing.T) {
	tests := []struct {
		name   string
		match  map[string]string
		want   string
		wantOk bool
	}{
		{
			name:   "System.getenv",
			match:  map[string]string{"obj": "System", "method": "getenv", "key": `"API_KEY"`},
			want:   "API_KEY",
			wantOk: true,
		},
		{
			name:   "System.getenv().get",
			match:  map[string]string{"obj": "System", "method1": "getenv", "method2": "get", "key": `"DATABASE_URL"`},
			want:   "DATABASE_URL",
			wantOk: true,
		},
		{
			name:  "other class",
			match: map[string]string{"obj": "Config", "method": "getenv", "key": `"KEY"`},
		},
		{
			name:  "System.getProperty",
			match: map[string]string{"obj": "System", "method": "getProperty", "key": `"user.home"`},
		},
		{
			name:  "getenv().put",
			match: map[string]string{"obj": "System", "method1": "getenv", "method2": "put", "key": `"KEY"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractEnvVarFromJava(tt.match)
			if ok != tt.wantOk || got != tt.want {
				t.Errorf("ExtractEnvVarFromJava() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOk)
			}
		})
	}
}
