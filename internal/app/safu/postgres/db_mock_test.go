package postgres

import (
	"context"

	"github.com/go-pg/pg/orm"
	"github.com/sirupsen/logrus"
)

type dbMock struct {
	orm.DB
	insert   func(model ...interface{}) error
	model    func(model ...interface{}) *orm.Query
	query    func(model, query interface{}, params ...interface{}) (orm.Result, error)
	queryOne func(model, query interface{}, params ...interface{}) (orm.Result, error)
	exec     func(query interface{}, params ...interface{}) (orm.Result, error)
	execOne  func(query interface{}, params ...interface{}) (orm.Result, error)
}

// succeedingDB routes every query through an empty successful result.
func succeedingDB(log *logrus.Logger) *dbMock {
	db := &dbMock{}
	db.model = func(model ...interface{}) *orm.Query {
		return orm.NewQuery(db, model...)
	}
	success := func(model, query interface{}, params ...interface{}) (orm.Result, error) {
		return makeResult(log), nil
	}
	db.query = success
	db.queryOne = success
	db.exec = func(query interface{}, params ...interface{}) (orm.Result, error) {
		return makeResult(log), nil
	}
	db.execOne = db.exec
	return db
}

// failingDB routes every query to the given error.
func failingDB(log *logrus.Logger, err error) *dbMock {
	db := succeedingDB(log)
	failure := func(model, query interface{}, params ...interface{}) (orm.Result, error) {
		return nil, err
	}
	db.query = failure
	db.queryOne = failure
	db.exec = func(query interface{}, params ...interface{}) (orm.Result, error) {
		return nil, err
	}
	db.execOne = db.exec
	return db
}

func (m *dbMock) Insert(model ...interface{}) error {
	return m.insert(model...)
}

func (m *dbMock) Model(model ...interface{}) *orm.Query {
	return m.model(model...)
}

func (m *dbMock) Query(model, query interface{}, params ...interface{}) (orm.Result, error) {
	return m.query(model, query, params...)
}

func (m *dbMock) QueryOne(model, query interface{}, params ...interface{}) (orm.Result, error) {
	return m.queryOne(model, query, params...)
}

func (m *dbMock) Exec(query interface{}, params ...interface{}) (orm.Result, error) {
	return m.exec(query, params...)
}

func (m *dbMock) ExecOne(query interface{}, params ...interface{}) (orm.Result, error) {
	return m.execOne(query, params...)
}

func (m *dbMock) ModelContext(c context.Context, model ...interface{}) *orm.Query {
	return m.model(model...)
}

func (m *dbMock) QueryContext(c context.Context, model, query interface{}, params ...interface{}) (orm.Result, error) {
	return m.query(model, query, params...)
}

func (m *dbMock) QueryOneContext(c context.Context, model, query interface{}, params ...interface{}) (orm.Result, error) {
	return m.queryOne(model, query, params...)
}

func (m *dbMock) ExecContext(c context.Context, query interface{}, params ...interface{}) (orm.Result, error) {
	return m.exec(query, params...)
}

func (m *dbMock) ExecOneContext(c context.Context, query interface{}, params ...interface{}) (orm.Result, error) {
	return m.execOne(query, params...)
}

type resultMock struct {
	orm.Result
	log   *logrus.Logger
	model []interface{}
}

func makeResult(log *logrus.Logger, model ...interface{}) orm.Result {
	return &resultMock{log: log, model: model}
}

func (m *resultMock) Model() orm.Model {
	model, err := orm.NewModel(m.model...)
	if err != nil {
		m.log.Info(err)
		return nil
	}
	return model
}

func (m *resultMock) RowsReturned() int {
	return len(m.model)
}

func (m *resultMock) RowsAffected() int {
	return len(m.model)
}
