package importer

import (
	"context"
	"sort"
	"sync"

	"github.com/heartmarshall/membership-backend/internal/domain"
)

// fakeStore is an in-memory Store that applies the same matching rules as the
// PostgreSQL index and records every call.
type fakeStore struct {
	mu sync.Mutex

	schools      []domain.School
	associations []storedAssociation
	nextAssocID  int64

	checkTableErr  map[domain.DatasetKind]error
	replaceErr     error
	aggregatesErr  error
	insertSchoolFn func(domain.School) error
	insertAssocFn  func(domain.Association) error

	callLog []string
}

type storedAssociation struct {
	ID int64
	domain.Association
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextAssocID:   1,
		checkTableErr: make(map[domain.DatasetKind]error),
	}
}

func (f *fakeStore) logCall(name string) {
	f.callLog = append(f.callLog, name)
}

func (f *fakeStore) calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.callLog {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeStore) CheckTable(_ context.Context, kind domain.DatasetKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logCall("CheckTable:" + kind.String())
	return f.checkTableErr[kind]
}

func (f *fakeStore) ExistsSchool(_ context.Context, key domain.SchoolKey) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logCall("ExistsSchool")
	for _, s := range f.schools {
		if s.Type != key.Type {
			continue
		}
		if key.InstitutionCode != "" && domain.Deref(s.InstitutionCode) == key.InstitutionCode {
			return true, nil
		}
		if s.Province == key.Province && domain.Deref(s.District) == key.District && s.Name == key.Name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) InsertSchool(_ context.Context, s domain.School) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logCall("InsertSchool")
	if f.insertSchoolFn != nil {
		if err := f.insertSchoolFn(s); err != nil {
			return err
		}
	}
	f.schools = append(f.schools, s)
	return nil
}

func (f *fakeStore) ReplaceAssociations(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logCall("ReplaceAssociations")
	if f.replaceErr != nil {
		return 0, f.replaceErr
	}
	n := int64(len(f.associations))
	f.associations = nil
	f.nextAssocID = 1
	return n, nil
}

func (f *fakeStore) InsertAssociation(_ context.Context, a domain.Association) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logCall("InsertAssociation")
	if f.insertAssocFn != nil {
		if err := f.insertAssocFn(a); err != nil {
			return err
		}
	}
	f.associations = append(f.associations, storedAssociation{ID: f.nextAssocID, Association: a})
	f.nextAssocID++
	return nil
}

func (f *fakeStore) Aggregates(_ context.Context) (domain.Aggregates, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logCall("Aggregates")
	if f.aggregatesErr != nil {
		return domain.Aggregates{}, f.aggregatesErr
	}

	byType := map[string]int64{}
	byProvince := map[string]int64{}
	for _, s := range f.schools {
		byType[s.Type.String()]++
		byProvince[s.Province]++
	}
	assocByProvince := map[string]int64{}
	for _, a := range f.associations {
		assocByProvince[a.Province]++
	}

	return domain.Aggregates{
		SchoolsByType:          groupCounts(byType),
		SchoolsByProvince:      groupCounts(byProvince),
		AssociationsTotal:      int64(len(f.associations)),
		AssociationsByProvince: groupCounts(assocByProvince),
	}, nil
}

func groupCounts(m map[string]int64) []domain.GroupCount {
	out := make([]domain.GroupCount, 0, len(m))
	for k, v := range m {
		out = append(out, domain.GroupCount{Label: k, Total: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Label < out[j].Label
	})
	return out
}
