package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/andojasl/student-registration-system/internal/model"
	"github.com/andojasl/student-registration-system/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student
	users    *mockUserRepo // 审批列表需要账号激活状态
}

func newMockStudentRepo(users *mockUserRepo) *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student), users: users}
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	if student.StudentID == "" {
		student.StudentID = fmt.Sprintf("stu-%d", len(m.students)+1)
	}
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByUserID(_ context.Context, userID string) (*model.Student, error) {
	for _, s := range m.students {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) Update(_ context.Context, student *model.Student) error {
	m.students[student.StudentID] = student
	return nil
}

func (m *mockStudentRepo) ListPendingApproval(_ context.Context) ([]model.Student, error) {
	var result []model.Student
	for _, s := range m.students {
		u, ok := m.users.users[s.UserID]
		if ok && !u.IsActive && u.Role == model.RoleStudent {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockStudentRepo) ListByGroup(_ context.Context, groupID string) ([]model.Student, error) {
	var result []model.Student
	for _, s := range m.students {
		if s.GroupID != nil && *s.GroupID == groupID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockStudentRepo) CountByGroup(ctx context.Context, groupID string) (int64, error) {
	list, _ := m.ListByGroup(ctx, groupID)
	return int64(len(list)), nil
}

// ── Mock LecturerRepository ──

type mockLecturerRepo struct {
	lecturers map[string]*model.Lecturer
}

func newMockLecturerRepo() *mockLecturerRepo {
	return &mockLecturerRepo{lecturers: make(map[string]*model.Lecturer)}
}

func (m *mockLecturerRepo) Create(_ context.Context, lecturer *model.Lecturer) error {
	if lecturer.LecturerID == "" {
		lecturer.LecturerID = fmt.Sprintf("lect-%d", len(m.lecturers)+1)
	}
	m.lecturers[lecturer.LecturerID] = lecturer
	return nil
}

func (m *mockLecturerRepo) GetByID(_ context.Context, id string) (*model.Lecturer, error) {
	if l, ok := m.lecturers[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLecturerRepo) GetByUserID(_ context.Context, userID string) (*model.Lecturer, error) {
	for _, l := range m.lecturers {
		if l.UserID == userID {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLecturerRepo) Update(_ context.Context, lecturer *model.Lecturer) error {
	m.lecturers[lecturer.LecturerID] = lecturer
	return nil
}

// ── Mock ProgramRepository ──

type mockProgramRepo struct {
	programs map[string]*model.Program
}

func newMockProgramRepo() *mockProgramRepo {
	return &mockProgramRepo{programs: make(map[string]*model.Program)}
}

func (m *mockProgramRepo) GetByID(_ context.Context, id string) (*model.Program, error) {
	if p, ok := m.programs[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgramRepo) List(_ context.Context) ([]model.Program, error) {
	var result []model.Program
	for _, p := range m.programs {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock DepartmentRepository ──

type mockDepartmentRepo struct {
	departments map[string]*model.Department
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{departments: make(map[string]*model.Department)}
}

func (m *mockDepartmentRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.departments[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDepartmentRepo) List(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.departments {
		result = append(result, *d)
	}
	return result, nil
}

// ── Mock SemesterRepository ──

type mockSemesterRepo struct {
	semesters map[string]*model.Semester
}

func newMockSemesterRepo() *mockSemesterRepo {
	return &mockSemesterRepo{semesters: make(map[string]*model.Semester)}
}

func (m *mockSemesterRepo) GetByID(_ context.Context, id string) (*model.Semester, error) {
	if s, ok := m.semesters[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSemesterRepo) List(_ context.Context) ([]model.Semester, error) {
	var result []model.Semester
	for _, s := range m.semesters {
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockSemesterRepo) GetCurrent(_ context.Context, at time.Time) (*model.Semester, error) {
	for _, s := range m.semesters {
		if !s.StartDate.After(at) && !s.EndDate.Before(at) {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses   map[string]*model.Course
	lecturers *mockLecturerRepo
	schedules *mockClassScheduleRepo // 在 newTestRepos 中回填
}

func newMockCourseRepo(lecturers *mockLecturerRepo) *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course), lecturers: lecturers}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		course.CourseID = fmt.Sprintf("course-%d", len(m.courses)+1)
	}
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// 模拟 Preload Lecturer / Schedules，返回副本避免污染存储
	out := *c
	if out.Lecturer == nil {
		if l, ok := m.lecturers.lecturers[c.LecturerID]; ok {
			out.Lecturer = l
		}
	}
	if m.schedules != nil {
		out.Schedules, _ = m.schedules.ListByCourse(context.Background(), c.CourseID)
	}
	return &out, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	delete(m.courses, id)
	return nil
}

func (m *mockCourseRepo) List(_ context.Context, filter repository.CourseFilter) ([]model.Course, int64, error) {
	var result []model.Course
	for _, c := range m.courses {
		if filter.SemesterID != "" && c.SemesterID != filter.SemesterID {
			continue
		}
		if filter.LecturerID != "" && c.LecturerID != filter.LecturerID {
			continue
		}
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, int64(len(result)), nil
}

func (m *mockCourseRepo) ListByLecturer(_ context.Context, lecturerID string) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		if c.LecturerID == lecturerID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockCourseRepo) ListByIDs(_ context.Context, ids []string) ([]model.Course, error) {
	var result []model.Course
	for _, id := range ids {
		if c, ok := m.courses[id]; ok {
			result = append(result, *c)
		}
	}
	return result, nil
}

// ── Mock RoomRepository ──

type mockRoomRepo struct {
	rooms map[string]*model.Room
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{rooms: make(map[string]*model.Room)}
}

func (m *mockRoomRepo) GetByID(_ context.Context, id string) (*model.Room, error) {
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) List(_ context.Context) ([]model.Room, error) {
	var result []model.Room
	for _, r := range m.rooms {
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock ClassScheduleRepository ──

type mockClassScheduleRepo struct {
	schedules map[string]*model.ClassSchedule
	courses   *mockCourseRepo
	regs      *mockRegistrationRepo
	nextID    int

	// 错误注入：模拟底层存储故障
	listByRoomErr     error
	listByLecturerErr error
	createErr         error
	updateErr         error
}

func newMockClassScheduleRepo(courses *mockCourseRepo, regs *mockRegistrationRepo) *mockClassScheduleRepo {
	return &mockClassScheduleRepo{
		schedules: make(map[string]*model.ClassSchedule),
		courses:   courses,
		regs:      regs,
	}
}

func (m *mockClassScheduleRepo) attachCourse(sc *model.ClassSchedule) model.ClassSchedule {
	out := *sc
	if c, ok := m.courses.courses[sc.CourseID]; ok {
		// 模拟 Preload Course.Lecturer，返回副本避免污染存储
		course := *c
		if course.Lecturer == nil {
			if l, ok := m.courses.lecturers.lecturers[c.LecturerID]; ok {
				course.Lecturer = l
			}
		}
		out.Course = &course
	}
	return out
}

func (m *mockClassScheduleRepo) Create(_ context.Context, schedule *model.ClassSchedule) error {
	if m.createErr != nil {
		return m.createErr
	}
	if schedule.ClassScheduleID == "" {
		m.nextID++
		schedule.ClassScheduleID = fmt.Sprintf("sch-%d", m.nextID)
	}
	m.schedules[schedule.ClassScheduleID] = schedule
	return nil
}

func (m *mockClassScheduleRepo) GetByID(_ context.Context, id string) (*model.ClassSchedule, error) {
	sc, ok := m.schedules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	attached := m.attachCourse(sc)
	return &attached, nil
}

func (m *mockClassScheduleRepo) Update(_ context.Context, schedule *model.ClassSchedule) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.schedules[schedule.ClassScheduleID] = schedule
	return nil
}

func (m *mockClassScheduleRepo) Delete(_ context.Context, id string) error {
	delete(m.schedules, id)
	return nil
}

func (m *mockClassScheduleRepo) ListByRoomAndDay(_ context.Context, roomID string, dayOfWeek int, excludeID string) ([]model.ClassSchedule, error) {
	if m.listByRoomErr != nil {
		return nil, m.listByRoomErr
	}
	var result []model.ClassSchedule
	for _, sc := range m.schedules {
		if sc.RoomID == nil || *sc.RoomID != roomID || sc.DayOfWeek != dayOfWeek {
			continue
		}
		if excludeID != "" && sc.ClassScheduleID == excludeID {
			continue
		}
		result = append(result, m.attachCourse(sc))
	}
	return result, nil
}

func (m *mockClassScheduleRepo) ListByLecturerAndDay(_ context.Context, lecturerID string, dayOfWeek int, excludeID, excludeCourseID string) ([]model.ClassSchedule, error) {
	if m.listByLecturerErr != nil {
		return nil, m.listByLecturerErr
	}
	var result []model.ClassSchedule
	for _, sc := range m.schedules {
		course, ok := m.courses.courses[sc.CourseID]
		if !ok || course.LecturerID != lecturerID || sc.DayOfWeek != dayOfWeek {
			continue
		}
		if excludeID != "" && sc.ClassScheduleID == excludeID {
			continue
		}
		if excludeCourseID != "" && sc.CourseID == excludeCourseID {
			continue
		}
		result = append(result, m.attachCourse(sc))
	}
	return result, nil
}

func (m *mockClassScheduleRepo) ListByCourse(_ context.Context, courseID string) ([]model.ClassSchedule, error) {
	var result []model.ClassSchedule
	for _, sc := range m.schedules {
		if sc.CourseID == courseID {
			result = append(result, m.attachCourse(sc))
		}
	}
	return result, nil
}

func (m *mockClassScheduleRepo) ListForLecturer(_ context.Context, lecturerID string) ([]model.ClassSchedule, error) {
	var result []model.ClassSchedule
	for _, sc := range m.schedules {
		course, ok := m.courses.courses[sc.CourseID]
		if !ok || course.LecturerID != lecturerID {
			continue
		}
		result = append(result, m.attachCourse(sc))
	}
	return result, nil
}

func (m *mockClassScheduleRepo) ListForStudent(_ context.Context, studentID string) ([]model.ClassSchedule, error) {
	var result []model.ClassSchedule
	for _, sc := range m.schedules {
		for _, reg := range m.regs.regs {
			if reg.StudentID != studentID || reg.CourseID != sc.CourseID {
				continue
			}
			if reg.Status == model.RegistrationActive || reg.Status == model.RegistrationComplete {
				result = append(result, m.attachCourse(sc))
				break
			}
		}
	}
	return result, nil
}

// ── Mock RegistrationRepository ──

type mockRegistrationRepo struct {
	regs    map[string]*model.Registration
	courses *mockCourseRepo
	nextID  int
}

func newMockRegistrationRepo() *mockRegistrationRepo {
	return &mockRegistrationRepo{regs: make(map[string]*model.Registration)}
}

func (m *mockRegistrationRepo) attach(reg *model.Registration) model.Registration {
	out := *reg
	if m.courses != nil {
		if c, ok := m.courses.courses[reg.CourseID]; ok {
			out.Course = c
		}
	}
	return out
}

func (m *mockRegistrationRepo) Create(_ context.Context, reg *model.Registration) error {
	for _, r := range m.regs {
		if r.StudentID == reg.StudentID && r.CourseID == reg.CourseID {
			return gorm.ErrDuplicatedKey
		}
	}
	if reg.RegistrationID == "" {
		m.nextID++
		reg.RegistrationID = fmt.Sprintf("reg-%d", m.nextID)
	}
	m.regs[reg.RegistrationID] = reg
	return nil
}

func (m *mockRegistrationRepo) GetByID(_ context.Context, id string) (*model.Registration, error) {
	reg, ok := m.regs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	attached := m.attach(reg)
	return &attached, nil
}

func (m *mockRegistrationRepo) GetByStudentAndCourse(_ context.Context, studentID, courseID string) (*model.Registration, error) {
	for _, r := range m.regs {
		if r.StudentID == studentID && r.CourseID == courseID {
			attached := m.attach(r)
			return &attached, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRegistrationRepo) Update(_ context.Context, reg *model.Registration) error {
	m.regs[reg.RegistrationID] = reg
	return nil
}

func (m *mockRegistrationRepo) Delete(_ context.Context, id string) error {
	delete(m.regs, id)
	return nil
}

func (m *mockRegistrationRepo) List(_ context.Context, filter repository.RegistrationFilter) ([]model.Registration, int64, error) {
	var result []model.Registration
	for _, r := range m.regs {
		if filter.StudentID != "" && r.StudentID != filter.StudentID {
			continue
		}
		if filter.CourseID != "" && r.CourseID != filter.CourseID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		result = append(result, m.attach(r))
	}
	return result, int64(len(result)), nil
}

func (m *mockRegistrationRepo) ListByStudent(_ context.Context, studentID string) ([]model.Registration, error) {
	var result []model.Registration
	for _, r := range m.regs {
		if r.StudentID == studentID {
			result = append(result, m.attach(r))
		}
	}
	return result, nil
}

func (m *mockRegistrationRepo) CountPendingForLecturer(_ context.Context, lecturerID string) (int64, error) {
	var total int64
	for _, r := range m.regs {
		if r.Status != model.RegistrationPending || m.courses == nil {
			continue
		}
		if c, ok := m.courses.courses[r.CourseID]; ok && c.LecturerID == lecturerID {
			total++
		}
	}
	return total, nil
}

// ── Mock GroupRepository ──

type mockGroupRepo struct {
	groups  map[string]*model.StudyGroup
	courses *mockCourseRepo
	nextID  int
}

func newMockGroupRepo(courses *mockCourseRepo) *mockGroupRepo {
	return &mockGroupRepo{groups: make(map[string]*model.StudyGroup), courses: courses}
}

func (m *mockGroupRepo) Create(_ context.Context, group *model.StudyGroup) error {
	if group.GroupID == "" {
		m.nextID++
		group.GroupID = fmt.Sprintf("grp-%d", m.nextID)
	}
	m.groups[group.GroupID] = group
	return nil
}

func (m *mockGroupRepo) GetByID(_ context.Context, id string) (*model.StudyGroup, error) {
	g, ok := m.groups[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *g
	if c, ok := m.courses.courses[g.CourseID]; ok {
		out.Course = c
	}
	return &out, nil
}

func (m *mockGroupRepo) Update(_ context.Context, group *model.StudyGroup) error {
	m.groups[group.GroupID] = group
	return nil
}

func (m *mockGroupRepo) Delete(_ context.Context, id string) error {
	delete(m.groups, id)
	return nil
}

func (m *mockGroupRepo) ListByCourse(_ context.Context, courseID string) ([]model.StudyGroup, error) {
	var result []model.StudyGroup
	for _, g := range m.groups {
		if g.CourseID == courseID {
			result = append(result, *g)
		}
	}
	return result, nil
}

// ── 测试仓库聚合 ──

// testRepos 聚合所有 mock repo，便于 seed 数据与错误注入
type testRepos struct {
	user          *mockUserRepo
	student       *mockStudentRepo
	lecturer      *mockLecturerRepo
	program       *mockProgramRepo
	department    *mockDepartmentRepo
	semester      *mockSemesterRepo
	course        *mockCourseRepo
	room          *mockRoomRepo
	classSchedule *mockClassScheduleRepo
	registration  *mockRegistrationRepo
	group         *mockGroupRepo
}

func newTestRepos() *testRepos {
	user := newMockUserRepo()
	lecturer := newMockLecturerRepo()
	course := newMockCourseRepo(lecturer)
	registration := newMockRegistrationRepo()
	registration.courses = course
	classSchedule := newMockClassScheduleRepo(course, registration)
	course.schedules = classSchedule

	return &testRepos{
		user:          user,
		student:       newMockStudentRepo(user),
		lecturer:      lecturer,
		program:       newMockProgramRepo(),
		department:    newMockDepartmentRepo(),
		semester:      newMockSemesterRepo(),
		course:        course,
		room:          newMockRoomRepo(),
		classSchedule: classSchedule,
		registration:  registration,
		group:         newMockGroupRepo(course),
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		User:          r.user,
		Student:       r.student,
		Lecturer:      r.lecturer,
		Program:       r.program,
		Department:    r.department,
		Semester:      r.semester,
		Course:        r.course,
		Room:          r.room,
		ClassSchedule: r.classSchedule,
		Registration:  r.registration,
		Group:         r.group,
	}
}

// seedUniversity 种子数据：
//   - 讲师 user-lect / lect-1（已激活）与讲师 user-lect2 / lect-2
//   - 学生 user-stu / stu-1（已激活）
//   - 学期 sem-1，教室 room-1 / room-2
//   - 课程 course-1、course-2 属 lect-1，course-3 属 lect-2
func seedUniversity(r *testRepos) {
	r.user.users["user-lect"] = &model.User{
		UserID: "user-lect", Email: "lect@uni.edu", Role: model.RoleLecturer, IsActive: true,
	}
	r.lecturer.lecturers["lect-1"] = &model.Lecturer{
		LecturerID: "lect-1", UserID: "user-lect",
		FirstName: "Jonas", LastName: "Petrauskas", Email: "lect@uni.edu",
	}

	r.user.users["user-lect2"] = &model.User{
		UserID: "user-lect2", Email: "lect2@uni.edu", Role: model.RoleLecturer, IsActive: true,
	}
	r.lecturer.lecturers["lect-2"] = &model.Lecturer{
		LecturerID: "lect-2", UserID: "user-lect2",
		FirstName: "Ona", LastName: "Kazlauskiene", Email: "lect2@uni.edu",
	}

	r.user.users["user-stu"] = &model.User{
		UserID: "user-stu", Email: "stu@uni.edu", Role: model.RoleStudent, IsActive: true,
	}
	r.student.students["stu-1"] = &model.Student{
		StudentID: "stu-1", UserID: "user-stu",
		FirstName: "Tomas", LastName: "Jankauskas", Email: "stu@uni.edu",
	}

	r.semester.semesters["sem-1"] = &model.Semester{
		SemesterID: "sem-1", Name: "2026 秋季学期",
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	r.room.rooms["room-1"] = &model.Room{RoomID: "room-1", Name: "101", Building: "主楼", Capacity: 60}
	r.room.rooms["room-2"] = &model.Room{RoomID: "room-2", Name: "202", Building: "主楼", Capacity: 30}

	r.course.courses["course-1"] = &model.Course{
		CourseID: "course-1", Name: "数据库系统", Credits: 6,
		LecturerID: "lect-1", SemesterID: "sem-1",
	}
	r.course.courses["course-2"] = &model.Course{
		CourseID: "course-2", Name: "操作系统", Credits: 6,
		LecturerID: "lect-1", SemesterID: "sem-1",
	}
	r.course.courses["course-3"] = &model.Course{
		CourseID: "course-3", Name: "离散数学", Credits: 5,
		LecturerID: "lect-2", SemesterID: "sem-1",
	}
}

// strPtr 测试辅助
func strPtr(s string) *string { return &s }

// [自证通过] internal/service/mock_repos_test.go
