package citypay

import (
	"fmt"
	"time"
)

// DataTypes are the types of data the package supports.
type DataTypes uint8

const (
	DTunknown DataTypes = 0 + iota
	DTstring
	DTfloat
	DTint
	DTdate
)

func (dt DataTypes) String() string {
	switch dt {
	case DTstring:
		return "string"
	case DTfloat:
		return "float"
	case DTint:
		return "int"
	case DTdate:
		return "date"
	default:
		return "unknown"
	}
}

// Col is a named, typed column.  data is one of []string, []float64, []int,
// []time.Time.
type Col struct {
	name  string
	dType DataTypes
	data  any
}

func NewCol(name string, data any) (*Col, error) {
	var dt DataTypes
	if dt = WhatAmI(data); dt == DTunknown {
		return nil, fmt.Errorf("unsupported data type in NewCol")
	}

	if !validName(name) {
		return nil, fmt.Errorf("illegal column name: %s", name)
	}

	c := &Col{
		name:  name,
		dType: dt,
		data:  data,
	}

	return c, nil
}

func (c *Col) Name() string {
	return c.name
}

func (c *Col) Rename(newName string) error {
	if !validName(newName) {
		return fmt.Errorf("illegal column name: %s", newName)
	}

	c.name = newName

	return nil
}

func (c *Col) DataType() DataTypes {
	return c.dType
}

func (c *Col) Len() int {
	switch c.dType {
	case DTfloat:
		return len(c.data.([]float64))
	case DTint:
		return len(c.data.([]int))
	case DTstring:
		return len(c.data.([]string))
	case DTdate:
		return len(c.data.([]time.Time))
	default:
		return -1
	}
}

func (c *Col) Data() any {
	return c.data
}

func (c *Col) Element(row int) any {
	switch c.dType {
	case DTfloat:
		return c.data.([]float64)[row]
	case DTint:
		return c.data.([]int)[row]
	case DTstring:
		return c.data.([]string)[row]
	case DTdate:
		return c.data.([]time.Time)[row]
	default:
		panic(fmt.Errorf("unsupported data type in Element"))
	}
}

func (c *Col) Copy() *Col {
	var copiedData any
	n := c.Len()
	switch c.dType {
	case DTfloat:
		copiedData = make([]float64, n)
		copy(copiedData.([]float64), c.data.([]float64))
	case DTint:
		copiedData = make([]int, n)
		copy(copiedData.([]int), c.data.([]int))
	case DTstring:
		copiedData = make([]string, n)
		copy(copiedData.([]string), c.data.([]string))
	case DTdate:
		copiedData = make([]time.Time, n)
		copy(copiedData.([]time.Time), c.data.([]time.Time))
	default:
		panic(fmt.Errorf("unsupported data type in Copy"))
	}

	col := &Col{
		name:  c.name,
		dType: c.dType,
		data:  copiedData,
	}

	return col
}

// ***************** Typed access *****************

func (c *Col) AsFloat() ([]float64, error) {
	switch c.dType {
	case DTfloat:
		return c.data.([]float64), nil
	case DTint:
		xOut := make([]float64, c.Len())
		for ind, xx := range c.data.([]int) {
			xOut[ind] = float64(xx)
		}

		return xOut, nil
	default:
		return nil, fmt.Errorf("column %s is %s, not float", c.name, c.dType)
	}
}

func (c *Col) AsInt() ([]int, error) {
	switch c.dType {
	case DTint:
		return c.data.([]int), nil
	case DTfloat:
		xOut := make([]int, c.Len())
		for ind, xx := range c.data.([]float64) {
			xOut[ind] = int(xx)
		}

		return xOut, nil
	default:
		return nil, fmt.Errorf("column %s is %s, not int", c.name, c.dType)
	}
}

func (c *Col) AsString() ([]string, error) {
	if c.dType != DTstring {
		return nil, fmt.Errorf("column %s is %s, not string", c.name, c.dType)
	}

	return c.data.([]string), nil
}

func (c *Col) AsDate() ([]time.Time, error) {
	if c.dType != DTdate {
		return nil, fmt.Errorf("column %s is %s, not date", c.name, c.dType)
	}

	return c.data.([]time.Time), nil
}

// ***************** Row operations *****************

func (c *Col) keepRows(keep []bool) {
	switch c.dType {
	case DTfloat:
		x := c.data.([]float64)
		xOut := make([]float64, 0, len(x))
		for ind := 0; ind < len(x); ind++ {
			if keep[ind] {
				xOut = append(xOut, x[ind])
			}
		}
		c.data = xOut
	case DTint:
		x := c.data.([]int)
		xOut := make([]int, 0, len(x))
		for ind := 0; ind < len(x); ind++ {
			if keep[ind] {
				xOut = append(xOut, x[ind])
			}
		}
		c.data = xOut
	case DTstring:
		x := c.data.([]string)
		xOut := make([]string, 0, len(x))
		for ind := 0; ind < len(x); ind++ {
			if keep[ind] {
				xOut = append(xOut, x[ind])
			}
		}
		c.data = xOut
	case DTdate:
		x := c.data.([]time.Time)
		xOut := make([]time.Time, 0, len(x))
		for ind := 0; ind < len(x); ind++ {
			if keep[ind] {
				xOut = append(xOut, x[ind])
			}
		}
		c.data = xOut
	default:
		panic(fmt.Errorf("unsupported data type in keepRows"))
	}
}

func (c *Col) swap(i, j int) {
	switch c.dType {
	case DTfloat:
		x := c.data.([]float64)
		x[i], x[j] = x[j], x[i]
	case DTint:
		x := c.data.([]int)
		x[i], x[j] = x[j], x[i]
	case DTstring:
		x := c.data.([]string)
		x[i], x[j] = x[j], x[i]
	case DTdate:
		x := c.data.([]time.Time)
		x[i], x[j] = x[j], x[i]
	default:
		panic(fmt.Errorf("unsupported data type in swap"))
	}
}

func (c *Col) less(i, j int) bool {
	switch c.dType {
	case DTfloat:
		return c.data.([]float64)[i] <= c.data.([]float64)[j]
	case DTint:
		return c.data.([]int)[i] <= c.data.([]int)[j]
	case DTstring:
		return c.data.([]string)[i] <= c.data.([]string)[j]
	case DTdate:
		return !c.data.([]time.Time)[i].After(c.data.([]time.Time)[j])
	default:
		panic(fmt.Errorf("unsupported data type in less"))
	}
}
