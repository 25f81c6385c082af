package suite

import (
	"encoding/json"

	"golang.org/x/text/encoding/charmap"
)

const tomlDoc = `# service manifest
title = "speedlab"
version = 3
ratio = 0.75
enabled = true
released = 1979-05-27T07:32:00-08:00
tags = ["fast", "compat", "bench"]
matrix = [[1, 2], [3, 4]]

[owner]
name = "Tom Preston-Werner"
"quoted key" = 'literal \n'

[database]
ports = [8000, 8001, 8002]
connection_max = 5000
limits = { cpu = 2.5, memory = "512M" }

[database.replica]
host = "10.0.0.2"

[[products]]
name = "Hammer"
sku = 738594937

[[products]]
name = "Nail"
sku = 284758393
color = "gray"
`

const tomlInvalid = "key = \"unterminated\nother = 1\n"

const envDoc = `# database settings
DB_HOST=localhost
DB_PORT=5432
export API_KEY=abc123
GREETING="hello world"
SINGLE='single quoted'
EMPTY=
DEBUG=true # trailing comment
`

const schemaDoc = `{
	"type": "object",
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"age": {"type": "integer", "minimum": 0},
		"tags": {"type": "array", "items": {"type": "string"}, "uniqueItems": true},
		"role": {"enum": ["admin", "user", "guest"]}
	},
	"required": ["name", "age"],
	"additionalProperties": false
}`

var schemaInstances = []string{
	`{"name": "ada", "age": 36}`,
	`{"name": "ada", "age": 36, "tags": ["x", "y"], "role": "admin"}`,
	`{"name": "", "age": 36}`,
	`{"name": "ada"}`,
	`{"name": "ada", "age": -1}`,
	`{"name": "ada", "age": 1.5}`,
	`{"name": "ada", "age": 30.0}`,
	`{"name": "ada", "age": 36, "extra": true}`,
	`{"name": "ada", "age": 36, "tags": ["x", "x"]}`,
	`{"name": "ada", "age": 36, "role": "root"}`,
	`[]`,
}

var markupInputs = []string{
	"plain text",
	`<script>alert("x")</script>`,
	"Tom & Jerry's <b>show</b>",
	"&amp; already escaped",
	"",
	"ünïcödé <ok>",
}

var versionInputs = []string{
	"1.0.0", "0.9.0", "1.10.0", "1.2.3", "2.0.0", "1.2.10", "0.0.1", "10.0.0", "1.2.0",
}

var humanizeInputs = []int64{0, 1, 2, 3, 4, 11, 12, 13, 21, 101, 111, 1000, 123456, 1234567, 9876543210}

var dateInputs = []string{
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"oct 7, 1970",
	"May 8, 2009 5:57:51 PM",
	"12 Feb 2006, 19:17",
	"Mon Jan  2 15:04:05 2006",
}

var ipInputs = []string{
	"192.168.0.1", "255.255.255.255", "0.0.0.0", "256.1.1.1", "1.2.3", "::1",
	"2001:db8::8a2e:370:7334", "not-an-ip", "",
}

const frenchText = "Le café est très chaud, merci à vous. Garçon, où est l'hôtel?"

const russianText = "Привет, как дела? Это тестовая строка на русском языке."

func mustEncode(cm *charmap.Charmap, s string) []byte {
	b, err := cm.NewEncoder().Bytes([]byte(s))
	if err != nil {
		panic(err)
	}
	return b
}

func charsetInputs() [][]byte {
	return [][]byte{
		[]byte(russianText),
		[]byte(frenchText),
		mustEncode(charmap.Windows1252, frenchText),
	}
}

func decodeJSON(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		panic(err)
	}
	return v
}

func intRange(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i % 97
	}
	return out
}
