package llmjson

import "testing"

type assessment struct {
	ApproachCorrect bool     `json:"approach_correct"`
	Bugs            []string `json:"potential_bugs"`
}

func TestUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    bool
		wantErr bool
	}{
		{
			name: "bare JSON",
			text: `{"approach_correct": true, "potential_bugs": []}`,
			want: true,
		},
		{
			name: "fenced JSON",
			text: "```json\n{\"approach_correct\": true, \"potential_bugs\": []}\n```",
			want: true,
		},
		{
			name: "fenced without language tag",
			text: "```\n{\"approach_correct\": true}\n```",
			want: true,
		},
		{
			name: "prose around JSON",
			text: `Here is my evaluation of the code:

{"approach_correct": true, "potential_bugs": ["off-by-one in loop"]}

Let me know if you need more detail.`,
			want: true,
		},
		{
			name: "braces inside string values",
			text: `{"approach_correct": false, "potential_bugs": ["missing } in template"]}`,
			want: false,
		},
		{
			name:    "no JSON at all",
			text:    "The approach looks mostly correct to me.",
			wantErr: true,
		},
		{
			name:    "empty response",
			text:    "",
			wantErr: true,
		},
		{
			name:    "unbalanced JSON",
			text:    `{"approach_correct": true, "potential_bugs": [`,
			wantErr: true,
		},
		{
			name:    "wrong field types",
			text:    `{"approach_correct": "yes", "potential_bugs": []}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got assessment
			err := Unmarshal(tt.text, &got)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Unmarshal() expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal() unexpected error: %v", err)
			}
			if got.ApproachCorrect != tt.want {
				t.Errorf("ApproachCorrect = %v, expected %v", got.ApproachCorrect, tt.want)
			}
		})
	}
}

func TestUnmarshalList(t *testing.T) {
	text := "Key points:\n```json\n[\"point one\", \"point two\"]\n```"

	var got []string
	if err := Unmarshal(text, &got); err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "point one" {
		t.Errorf("Unmarshal() = %v, expected two points", got)
	}
}
