package session

import (
	"reflect"
	"testing"
)

func TestCartOrderedSetSemantics(t *testing.T) {
	st := NewState("s1")

	if !st.AddToCart("beef_sliced") {
		t.Error("first add should succeed")
	}
	if !st.AddToCart("bean_sprouts") {
		t.Error("second add should succeed")
	}
	// 重復添加為 no-op，保持原位置
	if st.AddToCart("beef_sliced") {
		t.Error("duplicate add should be a no-op")
	}
	if want := []string{"beef_sliced", "bean_sprouts"}; !reflect.DeepEqual(st.Cart, want) {
		t.Errorf("cart = %v, want %v", st.Cart, want)
	}

	if !st.RemoveFromCart("beef_sliced") {
		t.Error("remove of present item should succeed")
	}
	if st.RemoveFromCart("beef_sliced") {
		t.Error("remove of absent item should report false")
	}
	if want := []string{"bean_sprouts"}; !reflect.DeepEqual(st.Cart, want) {
		t.Errorf("cart = %v, want %v", st.Cart, want)
	}
}

func TestNewStateDefaults(t *testing.T) {
	st := NewState("s1")
	if st.CurrentStep != StepCollecting {
		t.Errorf("step = %q, want collecting", st.CurrentStep)
	}
	if st.HasProfile {
		t.Error("new state should not have a profile yet")
	}
	if st.Profile.NumGuests != 1 {
		t.Errorf("default guests = %d, want 1", st.Profile.NumGuests)
	}
}
