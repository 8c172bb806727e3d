package dao

import (
	"encoding/json"
	"errors"
	"reflect"
	"time"

	"RelayOnlineJudge/common"
)

// Entities mirror into redis hashes field by field, keyed by json tag.
// Typed strings (model.Status) and json columns (slices, maps) are
// handled through reflection so new model fields need no code here.

func typeAnalyzed(x interface{}) interface{} {
	switch v := x.(type) {
	case string, int64, int, uint, uint64, bool, float32, float64, []byte:
		return v
	case time.Time:
		return common.TimeToStr(v)
	}
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()
	case reflect.Bool:
		return rv.Bool()
	}
	jsonValue, _ := json.Marshal(x)
	return jsonValue
}

// putObjToRedis stores a struct pointer as a redis hash, zero expire
// means no expiry.
func putObjToRedis(key string, obj interface{}, expire time.Duration) error {
	objType := reflect.TypeOf(obj)
	objVal := reflect.ValueOf(obj)
	if objType.Kind() != reflect.Ptr || objVal.IsNil() {
		return errors.New("want a non-nil struct pointer")
	}
	objType = objType.Elem()
	objVal = objVal.Elem()
	if objType.Kind() != reflect.Struct {
		return errors.New("want a struct pointer")
	}
	var args []interface{}
	for i := 0; i < objType.NumField(); i++ {
		tag := objType.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		args = append(args, tag, typeAnalyzed(objVal.Field(i).Interface()))
	}
	if _, err := rdb.HMSet(ctx, key, args...).Result(); err != nil {
		return err
	}
	if expire != 0 {
		rdb.Expire(ctx, key, expire)
	}
	return nil
}

// GetObjFromRedis fills a struct pointer from its redis hash.
func GetObjFromRedis(key string, obj interface{}) error {
	objType := reflect.TypeOf(obj)
	objVal := reflect.ValueOf(obj)
	if objType.Kind() != reflect.Ptr || objVal.IsNil() {
		return errors.New("want a non-nil struct pointer")
	}
	objType = objType.Elem()
	if objType.Kind() != reflect.Struct {
		return errors.New("want a struct pointer")
	}
	mp, err := rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return err
	}
	v := reflect.Indirect(objVal)
	for i := 0; i < v.NumField(); i++ {
		tag := objType.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		rawValue, ok := mp[tag]
		if !ok {
			continue
		}
		field := v.Field(i)
		if _, isTime := field.Interface().(time.Time); isTime {
			field.Set(reflect.ValueOf(common.StrToTime(rawValue)))
			continue
		}
		switch field.Kind() {
		case reflect.String:
			field.SetString(rawValue)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			field.SetInt(common.StrToInt64(rawValue))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			field.SetUint(common.StrToUint64(rawValue))
		case reflect.Bool:
			field.SetBool(common.StrToBool(rawValue))
		case reflect.Slice, reflect.Map, reflect.Ptr, reflect.Struct:
			target := reflect.New(field.Type())
			if err := json.Unmarshal([]byte(rawValue), target.Interface()); err != nil {
				return err
			}
			field.Set(target.Elem())
		default:
			return errors.New("unsupported redis field type: " + field.Kind().String())
		}
	}
	return nil
}
