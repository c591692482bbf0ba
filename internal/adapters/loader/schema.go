package loader

// scenarioSchema accepts warehouses and agents either as a list of
// {id, location} objects or as a mapping keyed by id.
const scenarioSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["warehouses", "agents", "packages"],
  "definitions": {
    "point": {
      "type": "array",
      "items": {"type": "number"},
      "minItems": 2,
      "maxItems": 2
    },
    "located": {
      "type": "object",
      "required": ["location"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "location": {"$ref": "#/definitions/point"}
      }
    },
    "collection": {
      "oneOf": [
        {
          "type": "array",
          "items": {"allOf": [{"$ref": "#/definitions/located"}, {"required": ["id"]}]}
        },
        {
          "type": "object",
          "additionalProperties": {
            "oneOf": [{"$ref": "#/definitions/point"}, {"$ref": "#/definitions/located"}]
          }
        }
      ]
    }
  },
  "properties": {
    "warehouses": {"$ref": "#/definitions/collection"},
    "agents": {"$ref": "#/definitions/collection"},
    "packages": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["warehouse_id", "destination"],
        "properties": {
          "id": {"type": "string"},
          "warehouse_id": {"type": "string"},
          "destination": {"$ref": "#/definitions/point"}
        }
      }
    }
  }
}`
