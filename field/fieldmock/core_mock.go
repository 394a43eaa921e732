// Package fieldmock holds a mockgen-style generated mock of field.Core,
// written by hand here since this repository never invokes the Go
// toolchain; its shape follows github.com/golang/mock's generated
// output exactly (gomock.Controller, gomock.Call recorders) so it
// drops in for fieldmanager's tests the same way a real `mockgen
// -source=field/core.go` run would.
package fieldmock

import (
	reflect "reflect"

	gomock "github.com/golang/mock/gomock"

	"github.com/sarchlab/zincfield/field"
	"github.com/sarchlab/zincfield/fieldcache"
)

// MockCore is a mock of the field.Core interface.
type MockCore struct {
	ctrl     *gomock.Controller
	recorder *MockCoreMockRecorder
}

// MockCoreMockRecorder is the mock recorder for MockCore.
type MockCoreMockRecorder struct {
	mock *MockCore
}

// NewMockCore creates a new mock instance.
func NewMockCore(ctrl *gomock.Controller) *MockCore {
	mock := &MockCore{ctrl: ctrl}
	mock.recorder = &MockCoreMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockCore) EXPECT() *MockCoreMockRecorder {
	return m.recorder
}

// TypeString mocks base method.
func (m *MockCore) TypeString() string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TypeString")
	ret0, _ := ret[0].(string)
	return ret0
}

// TypeString indicates an expected call of TypeString.
func (mr *MockCoreMockRecorder) TypeString() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TypeString", reflect.TypeOf((*MockCore)(nil).TypeString))
}

// ValueType mocks base method.
func (m *MockCore) ValueType() field.ValueType {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ValueType")
	ret0, _ := ret[0].(field.ValueType)
	return ret0
}

// ValueType indicates an expected call of ValueType.
func (mr *MockCoreMockRecorder) ValueType() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ValueType", reflect.TypeOf((*MockCore)(nil).ValueType))
}

// Evaluate mocks base method.
func (m *MockCore) Evaluate(f *field.Field, cache *fieldcache.Cache) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Evaluate", f, cache)
	ret0, _ := ret[0].(error)
	return ret0
}

// Evaluate indicates an expected call of Evaluate.
func (mr *MockCoreMockRecorder) Evaluate(f, cache interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Evaluate", reflect.TypeOf((*MockCore)(nil).Evaluate), f, cache)
}

// Copy mocks base method.
func (m *MockCore) Copy() field.Core {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Copy")
	ret0, _ := ret[0].(field.Core)
	return ret0
}

// Copy indicates an expected call of Copy.
func (mr *MockCoreMockRecorder) Copy() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Copy", reflect.TypeOf((*MockCore)(nil).Copy))
}

// Compare mocks base method.
func (m *MockCore) Compare(other field.Core) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Compare", other)
	ret0, _ := ret[0].(bool)
	return ret0
}

// Compare indicates an expected call of Compare.
func (mr *MockCoreMockRecorder) Compare(other interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Compare", reflect.TypeOf((*MockCore)(nil).Compare), other)
}

// NotInUse mocks base method.
func (m *MockCore) NotInUse(f *field.Field) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "NotInUse", f)
	ret0, _ := ret[0].(bool)
	return ret0
}

// NotInUse indicates an expected call of NotInUse.
func (mr *MockCoreMockRecorder) NotInUse(f interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "NotInUse", reflect.TypeOf((*MockCore)(nil).NotInUse), f)
}

// PropagateCoordinateSystem mocks base method.
func (m *MockCore) PropagateCoordinateSystem(f *field.Field) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "PropagateCoordinateSystem", f)
}

// PropagateCoordinateSystem indicates an expected call of PropagateCoordinateSystem.
func (mr *MockCoreMockRecorder) PropagateCoordinateSystem(f interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PropagateCoordinateSystem", reflect.TypeOf((*MockCore)(nil).PropagateCoordinateSystem), f)
}

// PropagateHierarchicalFieldChanges mocks base method.
func (m *MockCore) PropagateHierarchicalFieldChanges(f *field.Field, changed field.ChangeFlags) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "PropagateHierarchicalFieldChanges", f, changed)
}

// PropagateHierarchicalFieldChanges indicates an expected call of PropagateHierarchicalFieldChanges.
func (mr *MockCoreMockRecorder) PropagateHierarchicalFieldChanges(f, changed interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PropagateHierarchicalFieldChanges", reflect.TypeOf((*MockCore)(nil).PropagateHierarchicalFieldChanges), f, changed)
}

// SubregionRemoved mocks base method.
func (m *MockCore) SubregionRemoved(f *field.Field) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "SubregionRemoved", f)
}

// SubregionRemoved indicates an expected call of SubregionRemoved.
func (mr *MockCoreMockRecorder) SubregionRemoved(f interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SubregionRemoved", reflect.TypeOf((*MockCore)(nil).SubregionRemoved), f)
}

// FieldAddedToRegion mocks base method.
func (m *MockCore) FieldAddedToRegion(f *field.Field) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "FieldAddedToRegion", f)
}

// FieldAddedToRegion indicates an expected call of FieldAddedToRegion.
func (mr *MockCoreMockRecorder) FieldAddedToRegion(f interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FieldAddedToRegion", reflect.TypeOf((*MockCore)(nil).FieldAddedToRegion), f)
}
