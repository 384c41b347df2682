package report

// Schema is the JSON Schema (Draft 2020-12) for the complexity report
// JSON output. It documents the structure returned by WriteJSON.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/cr/complexity-report.schema.json",
  "title": "Complexity Report",
  "description": "Output schema for cr report --format=json",
  "type": "object",
  "required": ["version", "reports", "summary"],
  "properties": {
    "version": {
      "type": "string",
      "description": "Document layout version (semver)"
    },
    "reports": {
      "type": "array",
      "items": { "$ref": "#/$defs/ModuleReport" }
    },
    "errors": {
      "type": "array",
      "description": "Files skipped because they could not be analyzed",
      "items": { "$ref": "#/$defs/FileError" }
    },
    "summary": { "$ref": "#/$defs/Summary" }
  },
  "$defs": {
    "ModuleReport": {
      "type": "object",
      "required": [
        "path", "language", "aggregate", "functions", "dependencies",
        "maintainability", "loc", "cyclomatic", "effort", "params"
      ],
      "properties": {
        "path": { "type": "string" },
        "language": {
          "type": "string",
          "description": "Analyzer language (go, javascript, typescript, tsx)"
        },
        "aggregate": { "$ref": "#/$defs/FunctionReport" },
        "functions": {
          "type": "array",
          "items": { "$ref": "#/$defs/FunctionReport" }
        },
        "dependencies": {
          "type": "array",
          "items": { "$ref": "#/$defs/Dependency" }
        },
        "maintainability": { "type": "number" },
        "loc": {
          "type": "number",
          "description": "Mean logical lines per function"
        },
        "cyclomatic": {
          "type": "number",
          "description": "Mean cyclomatic complexity per function"
        },
        "effort": {
          "type": "number",
          "description": "Mean Halstead effort per function"
        },
        "params": {
          "type": "number",
          "description": "Mean parameter count per function"
        }
      }
    },
    "FunctionReport": {
      "type": "object",
      "required": [
        "name", "line", "params", "sloc", "cyclomatic",
        "cyclomatic_density", "halstead"
      ],
      "properties": {
        "name": { "type": "string" },
        "line": { "type": "integer", "minimum": 0 },
        "params": { "type": "integer", "minimum": 0 },
        "sloc": {
          "type": "object",
          "required": ["physical", "logical"],
          "properties": {
            "physical": { "type": "integer", "minimum": 0 },
            "logical": { "type": "integer", "minimum": 0 }
          }
        },
        "cyclomatic": { "type": "integer", "minimum": 1 },
        "cyclomatic_density": {
          "type": "number",
          "description": "Cyclomatic complexity as a percentage of logical lines"
        },
        "halstead": { "$ref": "#/$defs/Halstead" }
      }
    },
    "Halstead": {
      "type": "object",
      "required": [
        "operators", "operands", "length", "vocabulary",
        "difficulty", "volume", "effort", "bugs", "time"
      ],
      "properties": {
        "operators": { "$ref": "#/$defs/Counts" },
        "operands": { "$ref": "#/$defs/Counts" },
        "length": { "type": "integer", "minimum": 0 },
        "vocabulary": { "type": "integer", "minimum": 0 },
        "difficulty": { "type": "number" },
        "volume": { "type": "number" },
        "effort": { "type": "number" },
        "bugs": { "type": "number" },
        "time": { "type": "number" }
      }
    },
    "Counts": {
      "type": "object",
      "required": ["distinct", "total", "identifiers"],
      "properties": {
        "distinct": { "type": "integer", "minimum": 0 },
        "total": { "type": "integer", "minimum": 0 },
        "identifiers": {
          "type": "array",
          "items": { "type": "string" }
        }
      }
    },
    "Dependency": {
      "type": "object",
      "required": ["path", "line", "type"],
      "properties": {
        "path": { "type": "string" },
        "line": { "type": "integer", "minimum": 0 },
        "type": {
          "type": "string",
          "enum": ["import", "require", "go-import"]
        }
      }
    },
    "FileError": {
      "type": "object",
      "required": ["path", "message"],
      "properties": {
        "path": { "type": "string" },
        "message": { "type": "string" }
      }
    },
    "Summary": {
      "type": "object",
      "required": [
        "modules", "functions", "maintainability", "loc", "cyclomatic",
        "effort", "params", "first_order_density", "change_cost"
      ],
      "properties": {
        "modules": { "type": "integer", "minimum": 0 },
        "functions": { "type": "integer", "minimum": 0 },
        "maintainability": { "type": "number" },
        "loc": { "type": "number" },
        "cyclomatic": { "type": "number" },
        "effort": { "type": "number" },
        "params": { "type": "number" },
        "first_order_density": { "type": "number", "minimum": 0, "maximum": 100 },
        "change_cost": { "type": "number", "minimum": 0, "maximum": 100 }
      }
    }
  }
}`
