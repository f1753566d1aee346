package schema

import (
	"testing"

	"github.com/eino-contrib/jsonschema"
	"github.com/smartystreets/goconvey/convey"
)

func TestParamsOneOf_ToJSONSchema(t *testing.T) {
	convey.Convey("ParamsOneOf 转换为 JSON Schema", t, func() {
		var (
			oneOf     ParamsOneOf
			converted *jsonschema.Schema
			err       error
		)

		convey.Convey("直接提供 JSON Schema 时原样返回", func() {
			oneOf.jsonschema = &jsonschema.Schema{
				Type:        "string",
				Description: "this is the only argument",
			}
			converted, err = oneOf.ToJSONSchema()
			convey.So(err, convey.ShouldBeNil)
			convey.So(converted, convey.ShouldResemble, oneOf.jsonschema)
		})

		convey.Convey("由 ParameterInfo 转换", func() {
			oneOf.params = map[string]*ParameterInfo{
				"severity": {
					Type:     String,
					Desc:     "incident severity",
					Required: true,
					Enum:     []string{"low", "high"},
				},
				"owner": {
					Type: Object,
					Desc: "who owns the incident",
					SubParams: map[string]*ParameterInfo{
						"team": {Type: String, Required: true},
						"name": {Type: String},
					},
					Required: true,
				},
				"tags": {
					Type:     Array,
					ElemInfo: &ParameterInfo{Type: String},
				},
			}
			converted, err = oneOf.ToJSONSchema()
			convey.So(err, convey.ShouldBeNil)
			convey.So(converted.Type, convey.ShouldEqual, "object")
			convey.So(converted.Required, convey.ShouldResemble, []string{"owner", "severity"})
			convey.So(converted.Properties.Len(), convey.ShouldEqual, 3)
			convey.So(converted.Properties.Oldest().Key, convey.ShouldEqual, "owner")

			owner, ok := converted.Properties.Get("owner")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(owner.Required, convey.ShouldResemble, []string{"team"})
			convey.So(owner.Description, convey.ShouldEqual, "who owns the incident")

			severity, _ := converted.Properties.Get("severity")
			convey.So(severity.Enum, convey.ShouldResemble, []any{"low", "high"})

			tags, _ := converted.Properties.Get("tags")
			convey.So(tags.Items.Type, convey.ShouldEqual, "string")

			required, err := oneOf.RequiredParams()
			convey.So(err, convey.ShouldBeNil)
			convey.So(required, convey.ShouldResemble, []string{"owner", "severity"})
		})

		convey.Convey("nil 参数描述", func() {
			var p *ParamsOneOf
			converted, err = p.ToJSONSchema()
			convey.So(err, convey.ShouldBeNil)
			convey.So(converted, convey.ShouldBeNil)
		})
	})
}
